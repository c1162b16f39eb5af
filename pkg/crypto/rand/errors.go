package rand

import "errors"

var (
	// ErrInvalidLength is returned when requested length is invalid
	ErrInvalidLength = errors.New("invalid length: must be positive")

	// ErrNilMax is returned when max parameter is nil
	ErrNilMax = errors.New("max cannot be nil")

	// ErrInvalidMax is returned when max is too small for the requested range
	ErrInvalidMax = errors.New("max out of range")

	// ErrSamplingExhausted is returned when rejection sampling never lands in range
	ErrSamplingExhausted = errors.New("random sampling exhausted its attempts")

	// ErrEmptySeed is returned when a deterministic reader is built without a seed
	ErrEmptySeed = errors.New("seed cannot be empty")
)
