package analysis

import "errors"

// ErrInvalidOptions is returned when a run is configured with unusable values.
var ErrInvalidOptions = errors.New("invalid analysis options")
