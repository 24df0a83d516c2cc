// Package pattern mines recurring answer windows (n-grams) from contestant
// sequences together with their correctness, elimination and context
// statistics.
package pattern

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/internal/domain/tally"
)

// Window lengths used by the miners.
const (
	MinLength     = 2
	DefaultLength = 3
	DeepMinLength = 2
	DeepMaxLength = 6
)

// Stats is the finalized view of one pattern key. It is never mutated after
// Finalize returns it.
type Stats struct {
	Occurrences     int                         `json:"occurrences"`
	SuccessRate     float64                     `json:"success_rate"`
	EliminationRate float64                     `json:"elimination_rate"`
	Eliminations    int                         `json:"eliminations"`
	NextChoices     tally.Counter[model.Answer] `json:"next_choices"`
	Levels          tally.Counter[int]          `json:"level_distribution"`
	Categories      tally.Counter[string]       `json:"category_distribution"`
	Contestants     []string                    `json:"contestants"`
}

// Result is a finalized pattern table.
type Result map[Key]Stats

type contributor struct {
	order int
	pos   int
	id    string
}

type entry struct {
	occurrences  int
	hits         int // correct answers summed over every window
	eliminations int
	next         tally.Counter[model.Answer]
	levels       tally.Counter[int]
	categories   tally.Counter[string]
	contributors []contributor
}

func newEntry() *entry {
	return &entry{
		next:       tally.NewCounter[model.Answer](),
		levels:     tally.NewCounter[int](),
		categories: tally.NewCounter[string](),
	}
}

// Table accumulates statistics for a single window length. Entries are
// created on first occurrence only.
type Table struct {
	length  int
	entries map[Key]*entry
}

// NewTable returns an empty table for windows of the given length.
func NewTable(length int) (*Table, error) {
	if length < MinLength {
		return nil, fmt.Errorf("%w: got %d", ErrWindowLength, length)
	}
	return &Table{length: length, entries: make(map[Key]*entry)}, nil
}

// Length returns the window length of the table.
func (t *Table) Length() int { return t.length }

// Len returns the number of distinct keys observed so far.
func (t *Table) Len() int { return len(t.entries) }

// Observe scans every window of s. Windows containing an absent answer are
// skipped entirely.
func (t *Table) Observe(s *model.Sequence) {
	n, l := s.Len(), t.length
	for i := 0; i+l <= n; i++ {
		window, ok := s.Window(i, l)
		if !ok {
			continue
		}
		key := NewKey(window)
		e, found := t.entries[key]
		if !found {
			e = newEntry()
			t.entries[key] = e
		}
		e.occurrences++
		e.contributors = append(e.contributors, contributor{order: s.Order, pos: i, id: s.ID})
		for j := i; j < i+l; j++ {
			if s.Correct[j] {
				e.hits++
			}
			e.levels.Inc(s.Levels[j])
			e.categories.Inc(s.Categories[j])
		}
		end := i + l
		if end < n && s.Choices[end].Present() {
			e.next.Inc(s.Choices[end])
		}
		// Suffix heuristic: the last window of an eliminated contestant is
		// credited with the elimination.
		if s.Eliminated && end == n {
			e.eliminations++
		}
	}
}

// Merge folds other into t. Both tables must use the same window length.
func (t *Table) Merge(other *Table) error {
	if other == nil {
		return nil
	}
	if other.length != t.length {
		return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, t.length, other.length)
	}
	for key, oe := range other.entries {
		e, ok := t.entries[key]
		if !ok {
			e = newEntry()
			t.entries[key] = e
		}
		e.occurrences += oe.occurrences
		e.hits += oe.hits
		e.eliminations += oe.eliminations
		e.next.Merge(oe.next)
		e.levels.Merge(oe.levels)
		e.categories.Merge(oe.categories)
		e.contributors = append(e.contributors, oe.contributors...)
	}
	return nil
}

// Finalize computes the rates of every observed key.
func (t *Table) Finalize() Result {
	out := make(Result, len(t.entries))
	for key, e := range t.entries {
		contributors := slices.Clone(e.contributors)
		slices.SortFunc(contributors, func(a, b contributor) int {
			if c := cmp.Compare(a.order, b.order); c != 0 {
				return c
			}
			return cmp.Compare(a.pos, b.pos)
		})
		ids := make([]string, len(contributors))
		for i, c := range contributors {
			ids[i] = c.id
		}
		occ := float64(e.occurrences)
		out[key] = Stats{
			Occurrences: e.occurrences,
			// mean per-window correctness: (hits / length) / occurrences
			SuccessRate:     tally.Percent(float64(e.hits), occ*float64(t.length)),
			EliminationRate: tally.Percent(float64(e.eliminations), occ),
			Eliminations:    e.eliminations,
			NextChoices:     e.next.Clone(),
			Levels:          e.levels.Clone(),
			Categories:      e.categories.Clone(),
			Contestants:     ids,
		}
	}
	return out
}

// Mine runs the fixed-length miner over all sequences.
func Mine(seqs []*model.Sequence, length int) (Result, error) {
	t, err := NewTable(length)
	if err != nil {
		return nil, err
	}
	for _, s := range seqs {
		t.Observe(s)
	}
	return t.Finalize(), nil
}
