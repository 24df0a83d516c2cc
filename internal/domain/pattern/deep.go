package pattern

import (
	"fmt"

	"github.com/okian/quizpattern/internal/domain/model"
)

// DeepResult holds one finalized table per window length, keyed "length_<L>".
type DeepResult map[string]Result

// LengthKey names the table of windows of length l.
func LengthKey(l int) string { return fmt.Sprintf("length_%d", l) }

// Deep runs independent tables for every window length in [lo, hi].
type Deep struct {
	tables []*Table
}

// NewDeep returns a deep miner for lengths lo..hi inclusive.
func NewDeep(lo, hi int) (*Deep, error) {
	if lo < MinLength {
		return nil, fmt.Errorf("%w: got %d", ErrWindowLength, lo)
	}
	if hi < lo {
		return nil, fmt.Errorf("%w: max %d below min %d", ErrWindowLength, hi, lo)
	}
	d := &Deep{tables: make([]*Table, 0, hi-lo+1)}
	for l := lo; l <= hi; l++ {
		t, err := NewTable(l)
		if err != nil {
			return nil, err
		}
		d.tables = append(d.tables, t)
	}
	return d, nil
}

// Observe feeds s to every length.
func (d *Deep) Observe(s *model.Sequence) {
	for _, t := range d.tables {
		t.Observe(s)
	}
}

// Merge folds other into d. Both must cover the same lengths.
func (d *Deep) Merge(other *Deep) error {
	if other == nil {
		return nil
	}
	if len(other.tables) != len(d.tables) {
		return fmt.Errorf("%w: %d tables != %d", ErrLengthMismatch, len(d.tables), len(other.tables))
	}
	for i, t := range d.tables {
		if err := t.Merge(other.tables[i]); err != nil {
			return err
		}
	}
	return nil
}

// Finalize computes every table.
func (d *Deep) Finalize() DeepResult {
	out := make(DeepResult, len(d.tables))
	for _, t := range d.tables {
		out[LengthKey(t.length)] = t.Finalize()
	}
	return out
}

// Sizes returns the number of distinct keys per length.
func (d *Deep) Sizes() map[int]int {
	out := make(map[int]int, len(d.tables))
	for _, t := range d.tables {
		out[t.length] = t.Len()
	}
	return out
}

// MineDeep runs the deep miner over all sequences.
func MineDeep(seqs []*model.Sequence, lo, hi int) (DeepResult, error) {
	d, err := NewDeep(lo, hi)
	if err != nil {
		return nil, err
	}
	for _, s := range seqs {
		d.Observe(s)
	}
	return d.Finalize(), nil
}
