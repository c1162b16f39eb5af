package rand

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/chacha20"
)

// deterministicReader expands a seed into a ChaCha20 keystream.
// It is not safe for concurrent use.
type deterministicReader struct {
	stream *chacha20.Cipher
}

// NewDeterministicReader returns a reproducible byte source derived from seed.
// Use it only in tests and fixtures: anyone holding the seed can replay every
// secret and coefficient drawn from it.
func NewDeterministicReader(seed []byte) (io.Reader, error) {
	if len(seed) == 0 {
		return nil, ErrEmptySeed
	}

	key := sha256.Sum256(seed)
	nonce := make([]byte, chacha20.NonceSize)

	stream, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		return nil, err
	}

	return &deterministicReader{stream: stream}, nil
}

func (d *deterministicReader) Read(p []byte) (int, error) {
	clear(p)
	d.stream.XORKeyStream(p, p)
	return len(p), nil
}
