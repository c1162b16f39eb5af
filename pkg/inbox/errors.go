package inbox

import "errors"

var (
	// ErrUnknownMessage is returned for a share whose envelope has not been
	// ingested
	ErrUnknownMessage = errors.New("unknown message")

	// ErrDuplicate is returned when an identical artifact was already ingested
	ErrDuplicate = errors.New("artifact already ingested")

	// ErrConflict is returned when an artifact disagrees with one already
	// held for the same envelope id or share position
	ErrConflict = errors.New("artifact conflicts with an ingested one")

	// ErrUnsupportedType is returned for artifacts of an unknown type
	ErrUnsupportedType = errors.New("unsupported artifact type")
)
