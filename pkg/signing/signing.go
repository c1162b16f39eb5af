// Package signing provides the signature scheme used to authenticate shares
// and envelopes
package signing

import (
	"crypto/ed25519"
	"io"

	"github.com/Caqil/sealshare/internal/security"
	"github.com/Caqil/sealshare/pkg/crypto/rand"
)

// Signer generates keypairs, signs and verifies. Keys are raw byte encodings
// so they can travel inside envelopes unchanged.
type Signer interface {
	// Generate creates a keypair using r (nil selects crypto/rand)
	Generate(r io.Reader) (privateKey, publicKey []byte, err error)

	// Sign signs message with privateKey
	Sign(privateKey, message []byte) ([]byte, error)

	// Verify reports whether signature is valid for message under
	// publicKey. Malformed keys or signatures yield false, never a panic.
	Verify(publicKey, message, signature []byte) bool

	// PublicKey derives the public key from a private key
	PublicKey(privateKey []byte) ([]byte, error)
}

// Ed25519 implements Signer with RFC 8032 Ed25519. Public keys are the raw
// 32-byte encoding, private keys the 64-byte seed‖public form.
type Ed25519 struct{}

// Generate implements Signer. The 32-byte seed is read directly from r so
// a deterministic reader yields a deterministic keypair.
func (Ed25519) Generate(r io.Reader) ([]byte, []byte, error) {
	seed, err := rand.GenerateRandomBytes(r, ed25519.SeedSize)
	if err != nil {
		return nil, nil, err
	}
	defer security.SecureZero(seed)

	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)

	return priv, append([]byte(nil), pub...), nil
}

// FromSeed rebuilds a private key from its 32-byte seed
func (Ed25519) FromSeed(seed []byte) ([]byte, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, ErrInvalidSeed
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// Sign implements Signer
func (Ed25519) Sign(privateKey, message []byte) ([]byte, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, ErrInvalidPrivateKey
	}
	return ed25519.Sign(ed25519.PrivateKey(privateKey), message), nil
}

// Verify implements Signer
func (Ed25519) Verify(publicKey, message, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}

// PublicKey implements Signer
func (Ed25519) PublicKey(privateKey []byte) ([]byte, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, ErrInvalidPrivateKey
	}
	pub := ed25519.PrivateKey(privateKey).Public().(ed25519.PublicKey)
	return append([]byte(nil), pub...), nil
}
