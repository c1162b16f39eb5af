package binding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
)

// IntBytes encodes a non-negative integer as minimal big-endian bytes:
// leading zero bytes stripped, but never empty, so zero is a single 0x00.
// This rule applies to every integer crossing the serialization boundary.
func IntBytes(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 {
		return []byte{0}
	}
	return b
}

// IntFromBytes is the inverse of IntBytes. It rejects empty input and
// encodings with a redundant leading zero byte.
func IntFromBytes(b []byte) (*big.Int, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty integer encoding", ErrNonCanonical)
	}
	if len(b) > 1 && b[0] == 0 {
		return nil, fmt.Errorf("%w: leading zero byte in integer encoding", ErrNonCanonical)
	}
	return new(big.Int).SetBytes(b), nil
}

// marshalCanonical renders v as compact JSON in struct field order, without
// HTML escaping and without the encoder's trailing newline
func marshalCanonical(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// unmarshalStrict decodes exactly one JSON object with no unknown fields
func unmarshalStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", ErrMalformed)
	}
	return nil
}

// PeekType returns the "type" field of a JSON document without validating
// the rest of it
func PeekType(data []byte) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if head.Type == "" {
		return "", fmt.Errorf("%w: missing type", ErrMalformed)
	}
	return head.Type, nil
}

// ValidateMessageID checks that id is 1 to 128 characters of the URL-safe
// base64 alphabet. The restriction keeps canonical JSON free of escapes.
func ValidateMessageID(id string) error {
	if len(id) == 0 || len(id) > 128 {
		return ErrInvalidMessageID
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return ErrInvalidMessageID
		}
	}
	return nil
}
