package security

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidThreshold is returned when threshold parameters are invalid
	ErrInvalidThreshold = errors.New("invalid threshold: must satisfy 1 <= k <= n")

	// ErrInvalidShareCount is returned when the share count is not positive
	ErrInvalidShareCount = errors.New("invalid share count: must be >= 1")

	// ErrInvalidInputString is returned when a string contains forbidden bytes or is too long
	ErrInvalidInputString = errors.New("invalid input string")
)

// ValidateThreshold checks if threshold parameters are valid
// Returns error if:
// - shares < 1
// - threshold < 1
// - threshold > shares
func ValidateThreshold(threshold, shares int) error {
	if shares < 1 {
		return ErrInvalidShareCount
	}

	if threshold < 1 || threshold > shares {
		return ErrInvalidThreshold
	}

	return nil
}

// SanitizeInput validates string input
// Returns error if input is empty, exceeds max length or contains null bytes
func SanitizeInput(input string, maxLength int) error {
	if input == "" || len(input) > maxLength {
		return ErrInvalidInputString
	}

	if strings.IndexByte(input, 0) >= 0 {
		return ErrInvalidInputString
	}

	return nil
}
