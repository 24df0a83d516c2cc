// Package sampledata generates synthetic quiz show logs and smoke-checks a
// running analysis service against them.
package sampledata

import (
	"errors"
	"fmt"
	"time"
)

// Config holds configuration for a generation run.
type Config struct {
	Contestants   int           // number of contestants to generate
	PerEpisode    int           // contestants per episode (video)
	Seed          uint64        // seeds every random choice; equal seeds give equal logs
	DuplicateRate float64       // share of rows written twice, in [0, 1)
	BaseURL       string        // service to check after writing, empty to skip
	Timeout       time.Duration // HTTP request timeout
	Output        string        // CSV output path
}

// ErrInvalidConfig reports an unusable Config.
var ErrInvalidConfig = errors.New("invalid sample config")

// Validate checks the generation bounds.
func (c *Config) Validate() error {
	switch {
	case c.Contestants < 1:
		return fmt.Errorf("%w: contestants must be positive", ErrInvalidConfig)
	case c.PerEpisode < 1:
		return fmt.Errorf("%w: per-episode count must be positive", ErrInvalidConfig)
	case c.DuplicateRate < 0 || c.DuplicateRate >= 1:
		return fmt.Errorf("%w: duplicate rate must be in [0, 1)", ErrInvalidConfig)
	}
	return nil
}
