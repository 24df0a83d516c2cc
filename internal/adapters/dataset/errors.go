package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformed     = errors.New("malformed csv")
	ErrOpen          = errors.New("open dataset")
)
