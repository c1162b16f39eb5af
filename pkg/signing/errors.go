package signing

import "errors"

var (
	// ErrInvalidPrivateKey is returned when a private key has the wrong size
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInvalidPublicKey is returned when a public key has the wrong size
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrInvalidSeed is returned when a key seed has the wrong size
	ErrInvalidSeed = errors.New("invalid key seed")
)
