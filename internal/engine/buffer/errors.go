package buffer

import "errors"

// Errors returned by buffer operations.
var (
	// ErrOffsetOutOfRange indicates an offset outside [0, Len()].
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates a negative length or a range past the end.
	ErrRangeInvalid = errors.New("invalid range")
)
