// Package config defines service configuration and its loading layers.
package config

import (
	"runtime"
	"slices"

	"github.com/okian/quizpattern/internal/domain/analysis"
	"github.com/okian/quizpattern/internal/domain/cluster"
	"github.com/okian/quizpattern/internal/domain/winning"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DatasetPath is the CSV event log loaded at start-up. Empty starts with
	// an empty log.
	DatasetPath string `koanf:"dataset_path"`

	// WorkerCount sets the number of analysis workers per run.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory partition queue of a run.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize sets the size of the row deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxStandingsLimit caps GET /standings?limit.
	MaxStandingsLimit int `koanf:"max_standings_limit"`

	PatternLength   int `koanf:"pattern_length"`
	DeepMinLength   int `koanf:"deep_min_length"`
	DeepMaxLength   int `koanf:"deep_max_length"`
	FirstChoiceSize int `koanf:"first_choice_prefix"`

	// HighPerformerLevel and MidPerformerLevel are the final levels that open
	// the high and mid clusters.
	HighPerformerLevel int `koanf:"high_performer_level"`
	MidPerformerLevel  int `koanf:"mid_performer_level"`

	// JokerDependencyThreshold is the joker count that tags a contestant.
	JokerDependencyThreshold int `koanf:"joker_dependency_threshold"`

	WinningMinOccurrences int   `koanf:"winning_min_occurrences"`
	WinningMinPerformers  int   `koanf:"winning_min_performers"`
	WinningLengths        []int `koanf:"winning_lengths"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:                 "info",
		LogFormat:                "text",
		Addr:                     ":9080",
		WorkerCount:              runtime.NumCPU(),
		QueueSize:                1024,
		DedupeSize:               500_000,
		MaxStandingsLimit:        100,
		PatternLength:            3,
		DeepMinLength:            2,
		DeepMaxLength:            6,
		FirstChoiceSize:          5,
		HighPerformerLevel:       10,
		MidPerformerLevel:        5,
		JokerDependencyThreshold: 2,
		WinningMinOccurrences:    3,
		WinningMinPerformers:     3,
		WinningLengths:           []int{2, 3, 4},
	}
}

// AnalysisOptions maps the analysis keys onto run options.
func (c *Config) AnalysisOptions() analysis.Options {
	return analysis.Options{
		PatternLength:     c.PatternLength,
		DeepMinLength:     c.DeepMinLength,
		DeepMaxLength:     c.DeepMaxLength,
		FirstChoicePrefix: c.FirstChoiceSize,
		Clusters: cluster.Thresholds{
			High:            c.HighPerformerLevel,
			Mid:             c.MidPerformerLevel,
			JokerDependency: c.JokerDependencyThreshold,
		},
		Winning: winning.Options{
			HighLevel:      c.HighPerformerLevel,
			MinPerformers:  c.WinningMinPerformers,
			MinOccurrences: c.WinningMinOccurrences,
			Lengths:        slices.Clone(c.WinningLengths),
		},
	}
}
