package auth

import "errors"

var (
	// ErrSignatureInvalid is returned when a signature does not verify
	ErrSignatureInvalid = errors.New("signature verification failed")

	// ErrMissingSignature is returned when a share artifact carries no signature
	ErrMissingSignature = errors.New("missing signature")

	// ErrMalformedArtifact is returned when artifact text cannot be decoded
	ErrMalformedArtifact = errors.New("malformed artifact")

	// ErrNilSigner is returned when an authenticator has no signer
	ErrNilSigner = errors.New("signer cannot be nil")
)
