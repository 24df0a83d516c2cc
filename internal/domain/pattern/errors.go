package pattern

import "errors"

// Sentinel kinds for pattern errors.
var (
	ErrMalformedKey   = errors.New("malformed pattern key")
	ErrWindowLength   = errors.New("pattern window length must be at least 2")
	ErrLengthMismatch = errors.New("cannot merge tables of different window lengths")
)
