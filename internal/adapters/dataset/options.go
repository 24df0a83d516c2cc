package dataset

import (
	"github.com/okian/quizpattern/internal/domain/dedupe"
	"github.com/okian/quizpattern/pkg/logger"
)

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithDeduper sets the row deduplication cache. A nil deduper keeps every
// row.
func WithDeduper(d dedupe.Deduper) Option {
	return func(r *Reader) {
		r.deduper = d
	}
}

// WithDedupeSize bounds the reader's repeat cache. Zero keeps every
// fingerprint. Each reader gets its own cache.
func WithDedupeSize(size int) Option {
	return func(r *Reader) {
		if size >= 0 {
			r.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(size))
		}
	}
}

// WithLogger sets a custom logger for the reader.
func WithLogger(l logger.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDefaultCategory sets the category given to rows without one.
func WithDefaultCategory(category string) Option {
	return func(r *Reader) {
		if category != "" {
			r.defaultCategory = category
		}
	}
}
