// Package auth signs and verifies bound shares and envelopes over their
// canonical binding bytes
package auth

import (
	"bytes"
	"fmt"

	"github.com/Caqil/sealshare/pkg/binding"
	"github.com/Caqil/sealshare/pkg/signing"
)

// Authenticator produces and checks signatures with a single scheme
type Authenticator struct {
	Signer signing.Signer
}

// New returns an authenticator over signer. A nil signer selects Ed25519.
func New(signer signing.Signer) *Authenticator {
	if signer == nil {
		signer = signing.Ed25519{}
	}
	return &Authenticator{Signer: signer}
}

// SignedShare is a bound share with the exact bytes that were signed
type SignedShare struct {
	Share     *binding.BoundShare
	Payload   []byte
	Signature []byte
}

// SignedEnvelope is an envelope with its canonical bytes and an optional
// signature by the envelope's sender key
type SignedEnvelope struct {
	Envelope  *binding.Envelope
	Payload   []byte
	Signature []byte
}

// Signed reports whether the envelope carries a signature
func (s *SignedEnvelope) Signed() bool {
	return len(s.Signature) > 0
}

// SignShare signs the canonical bytes of a bound share
func (a *Authenticator) SignShare(share *binding.BoundShare, privateKey []byte) (*SignedShare, error) {
	if a.Signer == nil {
		return nil, ErrNilSigner
	}

	payload, err := binding.ShareBytes(share)
	if err != nil {
		return nil, err
	}

	sig, err := a.Signer.Sign(privateKey, payload)
	if err != nil {
		return nil, fmt.Errorf("sign share %d: %w", share.X(), err)
	}

	return &SignedShare{Share: share, Payload: payload, Signature: sig}, nil
}

// SignEnvelope signs the canonical bytes of an envelope
func (a *Authenticator) SignEnvelope(env *binding.Envelope, privateKey []byte) (*SignedEnvelope, error) {
	if a.Signer == nil {
		return nil, ErrNilSigner
	}

	payload, err := binding.EnvelopeBytes(env)
	if err != nil {
		return nil, err
	}

	sig, err := a.Signer.Sign(privateKey, payload)
	if err != nil {
		return nil, fmt.Errorf("sign envelope: %w", err)
	}

	return &SignedEnvelope{Envelope: env, Payload: payload, Signature: sig}, nil
}

// VerifyShare recomputes the canonical bytes of share and checks signature
// under publicKey. Malformed inputs yield false.
func (a *Authenticator) VerifyShare(share *binding.BoundShare, signature, publicKey []byte) bool {
	if a.Signer == nil {
		return false
	}

	payload, err := binding.ShareBytes(share)
	if err != nil {
		return false
	}
	return a.Signer.Verify(publicKey, payload, signature)
}

// VerifyEnvelope recomputes the canonical bytes of env and checks signature
// under publicKey
func (a *Authenticator) VerifyEnvelope(env *binding.Envelope, signature, publicKey []byte) bool {
	if a.Signer == nil {
		return false
	}

	payload, err := binding.EnvelopeBytes(env)
	if err != nil {
		return false
	}
	return a.Signer.Verify(publicKey, payload, signature)
}

// CheckShare verifies a signed share. The signature must cover the carried
// payload and the payload must be the canonical encoding of the share.
func (a *Authenticator) CheckShare(s *SignedShare, publicKey []byte) error {
	if s == nil || s.Share == nil {
		return binding.ErrNilShare
	}
	if len(s.Signature) == 0 {
		return ErrMissingSignature
	}
	canonical, err := binding.ShareBytes(s.Share)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	}
	if !bytes.Equal(canonical, s.Payload) {
		return fmt.Errorf("share %d: payload differs from share: %w", s.Share.X(), ErrSignatureInvalid)
	}
	if !a.VerifyShare(s.Share, s.Signature, publicKey) {
		return ErrSignatureInvalid
	}
	return nil
}

// CheckEnvelope verifies a signed envelope against its own sender key.
// Unsigned envelopes pass.
func (a *Authenticator) CheckEnvelope(s *SignedEnvelope) error {
	if s == nil || s.Envelope == nil {
		return binding.ErrInvalidEnvelope
	}
	if err := s.Envelope.Validate(); err != nil {
		return err
	}
	if !s.Signed() {
		return nil
	}
	canonical, err := binding.EnvelopeBytes(s.Envelope)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSignatureInvalid, err)
	}
	if !bytes.Equal(canonical, s.Payload) {
		return fmt.Errorf("envelope %s: payload differs from envelope: %w", s.Envelope.ID, ErrSignatureInvalid)
	}
	if !a.VerifyEnvelope(s.Envelope, s.Signature, s.Envelope.SenderPublicKey) {
		return fmt.Errorf("envelope %s: %w", s.Envelope.ID, ErrSignatureInvalid)
	}
	return nil
}
