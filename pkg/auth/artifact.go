package auth

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Caqil/sealshare/pkg/binding"
)

const artifactSeparator = "."

// EncodeShareArtifact renders a signed share as base64(payload).base64(sig)
func EncodeShareArtifact(s *SignedShare) string {
	return encodeArtifact(s.Payload, s.Signature)
}

// Encode is EncodeShareArtifact
func (s *SignedShare) Encode() string {
	return EncodeShareArtifact(s)
}

// ParseShareArtifact decodes share artifact text. It does not verify the
// signature; see CheckShare.
func ParseShareArtifact(text string) (*SignedShare, error) {
	payload, sig, err := decodeArtifact(text)
	if err != nil {
		return nil, err
	}
	if len(sig) == 0 {
		return nil, ErrMissingSignature
	}

	share, err := binding.ParseShare(payload)
	if err != nil {
		return nil, err
	}

	return &SignedShare{Share: share, Payload: payload, Signature: sig}, nil
}

// EncodeEnvelopeArtifact renders an envelope as base64(payload), followed by
// .base64(sig) when signed
func EncodeEnvelopeArtifact(s *SignedEnvelope) string {
	return encodeArtifact(s.Payload, s.Signature)
}

// Encode is EncodeEnvelopeArtifact
func (s *SignedEnvelope) Encode() string {
	return EncodeEnvelopeArtifact(s)
}

// ParseEnvelopeArtifact decodes envelope artifact text. The signature part
// is optional.
func ParseEnvelopeArtifact(text string) (*SignedEnvelope, error) {
	payload, sig, err := decodeArtifact(text)
	if err != nil {
		return nil, err
	}

	env, err := binding.ParseEnvelope(payload)
	if err != nil {
		return nil, err
	}

	return &SignedEnvelope{Envelope: env, Payload: payload, Signature: sig}, nil
}

// PeekArtifactType returns the document type inside artifact text
func PeekArtifactType(text string) (string, error) {
	payload, _, err := decodeArtifact(text)
	if err != nil {
		return "", err
	}
	return binding.PeekType(payload)
}

func encodeArtifact(payload, sig []byte) string {
	out := base64.StdEncoding.EncodeToString(payload)
	if len(sig) > 0 {
		out += artifactSeparator + base64.StdEncoding.EncodeToString(sig)
	}
	return out
}

func decodeArtifact(text string) ([]byte, []byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, fmt.Errorf("%w: empty", ErrMalformedArtifact)
	}

	parts := strings.Split(text, artifactSeparator)
	if len(parts) > 2 {
		return nil, nil, fmt.Errorf("%w: too many parts", ErrMalformedArtifact)
	}

	payload, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: payload: %v", ErrMalformedArtifact, err)
	}

	var sig []byte
	if len(parts) == 2 {
		sig, err = base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: signature: %v", ErrMalformedArtifact, err)
		}
		if len(sig) == 0 {
			return nil, nil, fmt.Errorf("%w: empty signature", ErrMalformedArtifact)
		}
	}

	return payload, sig, nil
}
