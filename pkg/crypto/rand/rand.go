// Package rand provides cryptographically secure random number generation
// with an injectable source
package rand

import (
	"crypto/rand"
	"io"
	"math/big"
)

// Reader is the default cryptographically secure random number generator.
// Every function in this package falls back to it when passed a nil reader.
var Reader io.Reader = rand.Reader

// maxSampleAttempts bounds the rejection loop in GenerateRandomInt. Each draw
// is accepted with probability > 1/2, so exhausting it means the source is
// broken rather than unlucky.
const maxSampleAttempts = 128

func source(r io.Reader) io.Reader {
	if r == nil {
		return Reader
	}
	return r
}

// GenerateRandomBytes reads n random bytes from r
func GenerateRandomBytes(r io.Reader, n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrInvalidLength
	}

	bytes := make([]byte, n)
	if _, err := io.ReadFull(source(r), bytes); err != nil {
		return nil, err
	}

	return bytes, nil
}

// GenerateRandomInt returns a uniform integer in [0, max).
// Raw bytes are masked to the bit length of max-1 and rejected when they
// land outside the range, so the result is never biased by a reduction.
func GenerateRandomInt(r io.Reader, max *big.Int) (*big.Int, error) {
	if max == nil {
		return nil, ErrNilMax
	}
	if max.Sign() <= 0 {
		return nil, ErrInvalidMax
	}

	top := new(big.Int).Sub(max, big.NewInt(1))
	bitLen := top.BitLen()
	if bitLen == 0 {
		return new(big.Int), nil
	}

	buf := make([]byte, (bitLen+7)/8)
	mask := byte(0xff)
	if rem := bitLen % 8; rem != 0 {
		mask = byte(1<<uint(rem)) - 1
	}

	rd := source(r)
	value := new(big.Int)
	for i := 0; i < maxSampleAttempts; i++ {
		if _, err := io.ReadFull(rd, buf); err != nil {
			return nil, err
		}
		buf[0] &= mask
		value.SetBytes(buf)
		if value.Cmp(max) < 0 {
			return value, nil
		}
	}

	return nil, ErrSamplingExhausted
}

// GenerateRandomScalar generates a uniform scalar in range [1, max)
func GenerateRandomScalar(r io.Reader, max *big.Int) (*big.Int, error) {
	if max == nil {
		return nil, ErrNilMax
	}
	if max.Cmp(big.NewInt(1)) <= 0 {
		return nil, ErrInvalidMax
	}

	// [0, max-1) shifted by one
	span := new(big.Int).Sub(max, big.NewInt(1))
	value, err := GenerateRandomInt(r, span)
	if err != nil {
		return nil, err
	}

	return value.Add(value, big.NewInt(1)), nil
}

// GenerateNonce generates a nonce of the specified length
func GenerateNonce(r io.Reader, length int) ([]byte, error) {
	return GenerateRandomBytes(r, length)
}
