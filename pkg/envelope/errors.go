package envelope

import "errors"

var (
	// ErrThresholdMismatch is returned when the envelope threshold differs
	// from the threshold the secret was split with
	ErrThresholdMismatch = errors.New("envelope threshold does not match split threshold")

	// ErrSecretGeneration is returned when no in-range secret was drawn within
	// the attempt budget
	ErrSecretGeneration = errors.New("secret generation failed")

	// ErrDecryptionFailed is returned when the reconstructed key does not
	// decrypt the payload. This is the authoritative signal that the shares
	// belong to a different secret.
	ErrDecryptionFailed = errors.New("payload decryption failed")

	// ErrKeySize is returned when a secret does not fit the AEAD key length
	ErrKeySize = errors.New("secret does not fit the key length")

	// ErrNoEnvelope is returned when Open is called without an envelope
	ErrNoEnvelope = errors.New("envelope is required")

	// ErrInvalidSigningKey is returned when a configured signing key cannot
	// be used
	ErrInvalidSigningKey = errors.New("invalid signing key")
)
