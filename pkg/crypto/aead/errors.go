package aead

import "errors"

var (
	// ErrInvalidKey is returned when the key is not KeySize bytes
	ErrInvalidKey = errors.New("aead: key must be 32 bytes")

	// ErrInvalidNonce is returned when the nonce is not NonceSize bytes
	ErrInvalidNonce = errors.New("aead: nonce must be 12 bytes")

	// ErrEncryptionFailed is returned when the cipher cannot be constructed
	ErrEncryptionFailed = errors.New("aead: encryption failed")

	// ErrAuthenticationFailed is returned when the ciphertext or tag does not
	// authenticate under the key and nonce
	ErrAuthenticationFailed = errors.New("aead: authentication failed")

	// ErrUnknownAlgorithm is returned for an unsupported algorithm name
	ErrUnknownAlgorithm = errors.New("aead: unknown algorithm")
)
