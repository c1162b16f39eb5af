package binding

import "errors"

var (
	// ErrNilShare is returned when a nil share or coordinate is provided
	ErrNilShare = errors.New("share cannot be nil")

	// ErrUnboundShare is returned when a share without message identifier is
	// serialized or signed
	ErrUnboundShare = errors.New("share is not bound to a message")

	// ErrInvalidMessageID is returned for identifiers outside [A-Za-z0-9_-]{1,128}
	ErrInvalidMessageID = errors.New("invalid message identifier")

	// ErrMismatchedMessage is returned when shares reference different messages
	ErrMismatchedMessage = errors.New("shares reference different messages")

	// ErrCoordinateOutOfRange is returned when x or y is not a field element
	ErrCoordinateOutOfRange = errors.New("share coordinate out of range")

	// ErrInvalidEnvelope is returned when envelope fields are missing or invalid
	ErrInvalidEnvelope = errors.New("invalid envelope")

	// ErrMalformed is returned when bytes do not decode as the expected document
	ErrMalformed = errors.New("malformed document")

	// ErrWrongType is returned when the document type field does not match
	ErrWrongType = errors.New("unexpected document type")

	// ErrNonCanonical is returned when a document decodes but is not in
	// canonical form, so its signature could not have been produced here
	ErrNonCanonical = errors.New("document is not canonically encoded")
)
