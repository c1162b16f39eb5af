// Package aead adapts authenticated ciphers to the fixed key and nonce
// sizes used for sealed payloads
package aead

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// KeySize is the key length in bytes (256-bit)
	KeySize = 32

	// NonceSize is the nonce length in bytes (96-bit)
	NonceSize = 12

	// AES256GCM names the default algorithm
	AES256GCM = "aes-256-gcm"

	// ChaCha20Poly1305 names the alternative algorithm
	ChaCha20Poly1305 = "chacha20-poly1305"
)

// Cipher encrypts and decrypts payloads. Ciphertexts carry the tag appended.
type Cipher interface {
	// Name returns the algorithm name
	Name() string

	// Encrypt returns ciphertext‖tag
	Encrypt(key, nonce, plaintext []byte) ([]byte, error)

	// Decrypt authenticates and decrypts ciphertext‖tag
	Decrypt(key, nonce, ciphertext []byte) ([]byte, error)
}

// New returns the cipher registered under name
func New(name string) (Cipher, error) {
	switch name {
	case AES256GCM, "":
		return AESGCM{}, nil
	case ChaCha20Poly1305:
		return ChaCha{}, nil
	default:
		return nil, ErrUnknownAlgorithm
	}
}

// AESGCM implements Cipher using AES-256-GCM
type AESGCM struct{}

// Name implements Cipher
func (AESGCM) Name() string { return AES256GCM }

// Encrypt implements Cipher
func (AESGCM) Encrypt(key, nonce, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key, nonce)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

// Decrypt implements Cipher
func (AESGCM) Decrypt(key, nonce, ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(key, nonce)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

func newGCM(key, nonce []byte) (cipher.AEAD, error) {
	if err := checkSizes(key, nonce); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrEncryptionFailed
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrEncryptionFailed
	}
	return gcm, nil
}

// ChaCha implements Cipher using ChaCha20-Poly1305 (RFC 8439)
type ChaCha struct{}

// Name implements Cipher
func (ChaCha) Name() string { return ChaCha20Poly1305 }

// Encrypt implements Cipher
func (ChaCha) Encrypt(key, nonce, plaintext []byte) ([]byte, error) {
	if err := checkSizes(key, nonce); err != nil {
		return nil, err
	}

	c, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, ErrEncryptionFailed
	}
	return c.Seal(nil, nonce, plaintext, nil), nil
}

// Decrypt implements Cipher
func (ChaCha) Decrypt(key, nonce, ciphertext []byte) ([]byte, error) {
	if err := checkSizes(key, nonce); err != nil {
		return nil, err
	}

	c, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, ErrEncryptionFailed
	}

	plaintext, err := c.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

func checkSizes(key, nonce []byte) error {
	if len(key) != KeySize {
		return ErrInvalidKey
	}
	if len(nonce) != NonceSize {
		return ErrInvalidNonce
	}
	return nil
}
