// Package repository holds the contestant standings store.
package repository

import (
	"context"

	"github.com/okian/quizpattern/internal/domain/types"
)

// Store provides read/write access to the standings.
type Store interface {
	// Upsert inserts or replaces the standing of a contestant.
	Upsert(ctx context.Context, s types.Standing) error

	// Rank returns the standing of a contestant with its current rank.
	// Returns ErrNotFound if the contestant is unknown.
	Rank(ctx context.Context, contestantID string) (types.Standing, error)

	// TopN returns the best n standings in rank order.
	TopN(ctx context.Context, n int) ([]types.Standing, error)

	// Count returns the number of contestants tracked.
	Count(ctx context.Context) int

	// Reset drops every standing.
	Reset(ctx context.Context)
}
