package worker

import "errors"

// Sentinel kinds for worker errors.
var (
	ErrNoFactory      = errors.New("accumulator factory is nil")
	ErrAlreadyStarted = errors.New("pool already started")
	ErrNotStarted     = errors.New("pool not started")
)
