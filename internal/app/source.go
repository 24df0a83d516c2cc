package service

import (
	"context"

	"github.com/okian/quizpattern/internal/adapters/dataset"
	"github.com/okian/quizpattern/internal/domain/model"
)

// Source yields the event log.
type Source func(ctx context.Context) ([]model.Event, error)

// FileSource reads the CSV log at path. Repeated questions are dropped by the
// reader; every call reads with a fresh reader.
func FileSource(path string, opts ...dataset.Option) Source {
	return func(ctx context.Context) ([]model.Event, error) {
		events, _, err := dataset.NewReader(opts...).ReadFile(ctx, path)
		return events, err
	}
}

// StaticSource serves a fixed log.
func StaticSource(events []model.Event) Source {
	return func(context.Context) ([]model.Event, error) {
		return events, nil
	}
}
