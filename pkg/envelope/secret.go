package envelope

import (
	"encoding/base64"
	"fmt"
	"io"
	"math/big"

	"github.com/Caqil/sealshare/internal/math"
	"github.com/Caqil/sealshare/internal/security"
	"github.com/Caqil/sealshare/pkg/crypto/aead"
	"github.com/Caqil/sealshare/pkg/crypto/rand"
)

const (
	// DefaultMaxSecretAttempts bounds rejection sampling in GenerateSecret.
	// For the P-256 prime a 256-bit draw is rejected with probability
	// about 2^-32, so the bound is never reached with a working source.
	DefaultMaxSecretAttempts = 64

	// MessageIDSize is the number of random bytes in a message identifier
	MessageIDSize = 16
)

// GenerateSecret draws a 256-bit secret from r and rejects draws that are
// not field elements. Out-of-range draws are resampled, never reduced.
func GenerateSecret(r io.Reader, field *math.Field, maxAttempts int) (*big.Int, error) {
	if field == nil {
		return nil, math.ErrNilField
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxSecretAttempts
	}
	if field.Modulus.BitLen() < 2 {
		return nil, fmt.Errorf("%w: field too small", ErrSecretGeneration)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		buf, err := rand.GenerateRandomBytes(r, aead.KeySize)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSecretGeneration, err)
		}

		candidate := new(big.Int).SetBytes(buf)
		security.SecureZero(buf)
		if field.Contains(candidate) {
			return candidate, nil
		}
		security.SecureZeroBigInt(candidate)
	}

	return nil, fmt.Errorf("%w: no in-range value after %d attempts", ErrSecretGeneration, maxAttempts)
}

// DeriveKey encodes the secret as a 32-byte big-endian AEAD key, left-padded
// with zeros
func DeriveKey(secret *big.Int) ([]byte, error) {
	if secret == nil {
		return nil, math.ErrNilSecret
	}
	if secret.Sign() < 0 || secret.BitLen() > aead.KeySize*8 {
		return nil, ErrKeySize
	}
	return secret.FillBytes(make([]byte, aead.KeySize)), nil
}

// NewMessageID returns 16 random bytes as URL-safe base64 without padding
func NewMessageID(r io.Reader) (string, error) {
	b, err := rand.GenerateRandomBytes(r, MessageIDSize)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
