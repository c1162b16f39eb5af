package math

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the class of errors caused by out-of-range or malformed arguments
	ErrInvalidInput = errors.New("invalid input")

	// ErrDomain is the class of errors raised by undefined field operations
	ErrDomain = errors.New("domain error")

	// ErrInsufficientShares is returned when not enough shares for reconstruction
	ErrInsufficientShares = errors.New("insufficient shares for reconstruction")

	// ErrInconsistentShares is returned when two share subsets reconstruct different secrets
	ErrInconsistentShares = errors.New("share subsets reconstruct different secrets")

	// ErrInvalidModulus is returned when modulus is invalid
	ErrInvalidModulus = fmt.Errorf("%w: modulus must be greater than one", ErrInvalidInput)

	// ErrEmptyCoefficients is returned when coefficients slice is empty
	ErrEmptyCoefficients = fmt.Errorf("%w: coefficients cannot be empty", ErrInvalidInput)

	// ErrInvalidDegree is returned when degree is negative
	ErrInvalidDegree = fmt.Errorf("%w: degree must be non-negative", ErrInvalidInput)

	// ErrNilField is returned when no field is supplied
	ErrNilField = fmt.Errorf("%w: field cannot be nil", ErrInvalidInput)

	// ErrNilSecret is returned when a nil secret is provided
	ErrNilSecret = fmt.Errorf("%w: secret cannot be nil", ErrInvalidInput)

	// ErrSecretOutOfRange is returned when the secret is not a field element
	ErrSecretOutOfRange = fmt.Errorf("%w: secret must be in [0, p)", ErrInvalidInput)

	// ErrNilShare is returned when a nil share is provided
	ErrNilShare = fmt.Errorf("%w: share cannot be nil", ErrInvalidInput)

	// ErrInvalidShare is returned when a share coordinate is outside the field
	ErrInvalidShare = fmt.Errorf("%w: share coordinates out of range", ErrInvalidInput)

	// ErrPointValueMismatch is returned when points and values have different lengths
	ErrPointValueMismatch = fmt.Errorf("%w: points and values must have the same length", ErrInvalidInput)

	// ErrEmptyPoints is returned when points slice is empty
	ErrEmptyPoints = fmt.Errorf("%w: points cannot be empty", ErrInvalidInput)

	// ErrZeroInverse is returned when the inverse of zero is requested
	ErrZeroInverse = fmt.Errorf("%w: modular inverse of zero", ErrDomain)

	// ErrDuplicatePoints is returned when interpolation points are not unique.
	// It is both an input error and a domain error: duplicate x-coordinates
	// make a Lagrange denominator vanish.
	ErrDuplicatePoints = fmt.Errorf("%w: %w: interpolation points must be unique", ErrInvalidInput, ErrDomain)
)
