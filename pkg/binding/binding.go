// Package binding ties shares to one encrypted message and produces the
// canonical bytes that signatures cover
package binding

import (
	"bytes"
	"fmt"
	"math/big"
	"time"

	"github.com/Caqil/sealshare/internal/math"
)

const (
	// TypeShare is the document type of a serialized share
	TypeShare = "share"

	// TypeEnvelope is the document type of a serialized envelope
	TypeEnvelope = "encryptedMessage"
)

// BoundShare is a share attached to the identifier of the envelope whose
// secret it carries
type BoundShare struct {
	MessageID string
	Share     *math.Share
}

// Bind attaches messageID to share. Coordinates must be field elements.
func Bind(share *math.Share, messageID string) (*BoundShare, error) {
	if share == nil || share.X == nil || share.Y == nil {
		return nil, ErrNilShare
	}
	if err := ValidateMessageID(messageID); err != nil {
		return nil, err
	}
	if !math.P256.Contains(share.X) || !math.P256.Contains(share.Y) {
		return nil, ErrCoordinateOutOfRange
	}

	return &BoundShare{
		MessageID: messageID,
		Share:     share.Clone(),
	}, nil
}

// BindAll binds every share to messageID
func BindAll(shares []*math.Share, messageID string) ([]*BoundShare, error) {
	bound := make([]*BoundShare, len(shares))
	for i, share := range shares {
		b, err := Bind(share, messageID)
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", i+1, err)
		}
		bound[i] = b
	}
	return bound, nil
}

type shareDocument struct {
	Type      string `json:"type"`
	MessageID string `json:"messageId"`
	X         []byte `json:"x"`
	Y         []byte `json:"y"`
}

// ShareBytes returns the canonical serialization of a bound share:
// {"type":"share","messageId":…,"x":…,"y":…} with x and y as base64 of
// IntBytes.
func ShareBytes(b *BoundShare) ([]byte, error) {
	if b == nil || b.Share == nil || b.Share.X == nil || b.Share.Y == nil {
		return nil, ErrNilShare
	}
	if b.MessageID == "" {
		return nil, ErrUnboundShare
	}
	if err := ValidateMessageID(b.MessageID); err != nil {
		return nil, err
	}
	if b.Share.X.Sign() < 0 || b.Share.Y.Sign() < 0 {
		return nil, ErrCoordinateOutOfRange
	}

	return marshalCanonical(&shareDocument{
		Type:      TypeShare,
		MessageID: b.MessageID,
		X:         IntBytes(b.Share.X),
		Y:         IntBytes(b.Share.Y),
	})
}

// ParseShare decodes canonical share bytes. Input that decodes but does not
// re-encode to the identical bytes is rejected with ErrNonCanonical.
func ParseShare(data []byte) (*BoundShare, error) {
	var doc shareDocument
	if err := unmarshalStrict(data, &doc); err != nil {
		return nil, err
	}
	if doc.Type != TypeShare {
		return nil, fmt.Errorf("%w: %q", ErrWrongType, doc.Type)
	}
	if err := ValidateMessageID(doc.MessageID); err != nil {
		return nil, err
	}

	x, err := IntFromBytes(doc.X)
	if err != nil {
		return nil, err
	}
	y, err := IntFromBytes(doc.Y)
	if err != nil {
		return nil, err
	}
	if !math.P256.Contains(x) || !math.P256.Contains(y) {
		return nil, ErrCoordinateOutOfRange
	}

	bound := &BoundShare{
		MessageID: doc.MessageID,
		Share:     &math.Share{X: x, Y: y},
	}

	canonical, err := ShareBytes(bound)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(canonical, data) {
		return nil, ErrNonCanonical
	}

	return bound, nil
}

// CheckConsistency fails with ErrMismatchedMessage unless every share carries
// the same message identifier. Mixing shares of different secrets corrupts
// reconstruction without any arithmetic error, so this must run first.
func CheckConsistency(shares []*BoundShare) error {
	if len(shares) == 0 {
		return nil
	}

	for i, s := range shares {
		if s == nil {
			return fmt.Errorf("%w: share %d", ErrNilShare, i+1)
		}
	}

	first := shares[0].MessageID
	for i, s := range shares[1:] {
		if s.MessageID != first {
			return fmt.Errorf("%w: share %d references %q, share 1 references %q",
				ErrMismatchedMessage, i+2, s.MessageID, first)
		}
	}
	return nil
}

// Shares extracts the raw shares
func Shares(bound []*BoundShare) []*math.Share {
	shares := make([]*math.Share, len(bound))
	for i, b := range bound {
		shares[i] = b.Share
	}
	return shares
}

// Envelope is an encrypted payload plus what a holder of k shares needs to
// decrypt it. It does not reference its shares; shares reference it by ID.
type Envelope struct {
	ID              string
	Ciphertext      []byte
	Nonce           []byte
	SenderPublicKey []byte
	// CreatedAt is in unix seconds
	CreatedAt int64
	Threshold int
}

// Created returns CreatedAt as a time
func (e *Envelope) Created() time.Time {
	return time.Unix(e.CreatedAt, 0).UTC()
}

// Validate checks that every field is present and in range
func (e *Envelope) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: nil envelope", ErrInvalidEnvelope)
	}
	if err := ValidateMessageID(e.ID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
	}
	if len(e.Ciphertext) == 0 {
		return fmt.Errorf("%w: empty ciphertext", ErrInvalidEnvelope)
	}
	if len(e.Nonce) == 0 {
		return fmt.Errorf("%w: empty nonce", ErrInvalidEnvelope)
	}
	if len(e.SenderPublicKey) == 0 {
		return fmt.Errorf("%w: empty sender public key", ErrInvalidEnvelope)
	}
	if e.CreatedAt < 0 {
		return fmt.Errorf("%w: negative creation time", ErrInvalidEnvelope)
	}
	if e.Threshold < 1 {
		return fmt.Errorf("%w: threshold must be >= 1", ErrInvalidEnvelope)
	}
	return nil
}

type envelopeDocument struct {
	Type            string `json:"type"`
	ID              string `json:"id"`
	Ciphertext      []byte `json:"ciphertext"`
	Nonce           []byte `json:"nonce"`
	SenderPublicKey []byte `json:"senderPublicKey"`
	CreatedAt       int64  `json:"createdAt"`
	Threshold       int    `json:"threshold"`
}

// EnvelopeBytes returns the canonical serialization of an envelope
func EnvelopeBytes(e *Envelope) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	return marshalCanonical(&envelopeDocument{
		Type:            TypeEnvelope,
		ID:              e.ID,
		Ciphertext:      e.Ciphertext,
		Nonce:           e.Nonce,
		SenderPublicKey: e.SenderPublicKey,
		CreatedAt:       e.CreatedAt,
		Threshold:       e.Threshold,
	})
}

// ParseEnvelope decodes canonical envelope bytes
func ParseEnvelope(data []byte) (*Envelope, error) {
	var doc envelopeDocument
	if err := unmarshalStrict(data, &doc); err != nil {
		return nil, err
	}
	if doc.Type != TypeEnvelope {
		return nil, fmt.Errorf("%w: %q", ErrWrongType, doc.Type)
	}

	env := &Envelope{
		ID:              doc.ID,
		Ciphertext:      doc.Ciphertext,
		Nonce:           doc.Nonce,
		SenderPublicKey: doc.SenderPublicKey,
		CreatedAt:       doc.CreatedAt,
		Threshold:       doc.Threshold,
	}

	canonical, err := EnvelopeBytes(env)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(canonical, data) {
		return nil, ErrNonCanonical
	}

	return env, nil
}

// X returns the share's x-coordinate as an int for logging and indexing.
// Shares produced by Split always fit.
func (b *BoundShare) X() int {
	if b == nil || b.Share == nil || b.Share.X == nil || !b.Share.X.IsInt64() {
		return -1
	}
	return int(b.Share.X.Int64())
}

// Equal reports whether two bound shares are identical
func (b *BoundShare) Equal(other *BoundShare) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.MessageID == other.MessageID && b.Share.Equal(other.Share)
}

// keyOf identifies a share position within a message
func keyOf(messageID string, x *big.Int) string {
	return messageID + "/" + x.String()
}

// Key returns "<messageId>/<x>", unique per share position
func (b *BoundShare) Key() string {
	return keyOf(b.MessageID, b.Share.X)
}
