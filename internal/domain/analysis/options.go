package analysis

import (
	"fmt"

	"github.com/okian/quizpattern/internal/domain/behavior"
	"github.com/okian/quizpattern/internal/domain/cluster"
	"github.com/okian/quizpattern/internal/domain/pattern"
	"github.com/okian/quizpattern/internal/domain/winning"
)

// Options tunes every table of a run.
type Options struct {
	PatternLength     int
	DeepMinLength     int
	DeepMaxLength     int
	FirstChoicePrefix int
	Clusters          cluster.Thresholds
	Winning           winning.Options
}

// DefaultOptions returns the standard analysis settings.
func DefaultOptions() Options {
	return Options{
		PatternLength:     pattern.DefaultLength,
		DeepMinLength:     pattern.DeepMinLength,
		DeepMaxLength:     pattern.DeepMaxLength,
		FirstChoicePrefix: behavior.DefaultPrefix,
		Clusters:          cluster.DefaultThresholds(),
		Winning:           winning.DefaultOptions(),
	}
}

// Validate checks the options for values no run can use.
func (o Options) Validate() error {
	switch {
	case o.PatternLength < pattern.MinLength:
		return fmt.Errorf("%w: pattern length %d", ErrInvalidOptions, o.PatternLength)
	case o.DeepMinLength < pattern.MinLength || o.DeepMaxLength < o.DeepMinLength:
		return fmt.Errorf("%w: deep lengths %d..%d", ErrInvalidOptions, o.DeepMinLength, o.DeepMaxLength)
	case o.Clusters.Mid > o.Clusters.High:
		return fmt.Errorf("%w: mid level %d above high level %d", ErrInvalidOptions, o.Clusters.Mid, o.Clusters.High)
	case o.Winning.MinPerformers < 1 || o.Winning.MinOccurrences < 1:
		return fmt.Errorf("%w: winning minimums must be positive", ErrInvalidOptions)
	case len(o.Winning.Lengths) == 0:
		return fmt.Errorf("%w: no winning pattern lengths", ErrInvalidOptions)
	}
	for _, l := range o.Winning.Lengths {
		if l < pattern.MinLength {
			return fmt.Errorf("%w: winning length %d", ErrInvalidOptions, l)
		}
	}
	return nil
}
