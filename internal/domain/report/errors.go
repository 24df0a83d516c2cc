package report

import "errors"

// ErrUnknownSection is returned for a section name the report does not have.
var ErrUnknownSection = errors.New("unknown report section")
