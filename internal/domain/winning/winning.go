// Package winning finds answer patterns that recur among high performers.
package winning

import (
	"cmp"
	"slices"

	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/internal/domain/pattern"
	"github.com/okian/quizpattern/internal/domain/tally"
)

// Options configures the finder.
type Options struct {
	HighLevel      int   // final level that makes a contestant a high performer
	MinPerformers  int   // below this many high performers nothing is reported
	MinOccurrences int   // global occurrences a pattern needs to be kept
	Lengths        []int // window lengths scanned per performer
}

// DefaultOptions returns the standard settings.
func DefaultOptions() Options {
	return Options{HighLevel: 10, MinPerformers: 3, MinOccurrences: 3, Lengths: []int{2, 3, 4}}
}

// Pattern is one reported winning pattern.
//
// SuccessRate is occurrences per high performer and may exceed 100 when a
// pattern repeats inside sequences. ExposureRate is the share of high
// performers whose sequence contains the pattern at least once.
type Pattern struct {
	Pattern         []model.Answer `json:"pattern"`
	Key             pattern.Key    `json:"key"`
	Occurrences     int            `json:"occurrences"`
	SuccessRate     float64        `json:"success_rate"`
	ContestantCount int            `json:"contestant_count"`
	ExposureRate    float64        `json:"exposure_rate"`
}

// Accumulator counts windows over high performers.
type Accumulator struct {
	opts        Options
	performers  int
	occurrences tally.Counter[pattern.Key]
	holders     tally.Counter[pattern.Key]
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator(opts Options) *Accumulator {
	return &Accumulator{
		opts:        opts,
		occurrences: tally.NewCounter[pattern.Key](),
		holders:     tally.NewCounter[pattern.Key](),
	}
}

// Observe scans s when it belongs to a high performer.
func (a *Accumulator) Observe(s *model.Sequence) {
	if s.FinalLevel < a.opts.HighLevel {
		return
	}
	a.performers++
	seen := make(map[pattern.Key]struct{})
	for _, l := range a.opts.Lengths {
		for i := 0; i+l <= s.Len(); i++ {
			w, ok := s.Window(i, l)
			if !ok {
				continue
			}
			k := pattern.NewKey(w)
			a.occurrences.Inc(k)
			seen[k] = struct{}{}
		}
	}
	for k := range seen {
		a.holders.Inc(k)
	}
}

// Merge folds other into a.
func (a *Accumulator) Merge(other *Accumulator) {
	if other == nil {
		return
	}
	a.performers += other.performers
	a.occurrences.Merge(other.occurrences)
	a.holders.Merge(other.holders)
}

// Performers returns the number of high performers observed.
func (a *Accumulator) Performers() int { return a.performers }

// Finalize filters and ranks the patterns: rate descending, then
// occurrences descending, then shorter patterns, then key.
func (a *Accumulator) Finalize() []Pattern {
	out := []Pattern{}
	if a.performers < a.opts.MinPerformers {
		return out
	}
	den := float64(a.performers)
	for _, k := range a.occurrences.Keys() {
		n := a.occurrences[k]
		if n < a.opts.MinOccurrences {
			continue
		}
		out = append(out, Pattern{
			Pattern:         k.Symbols(),
			Key:             k,
			Occurrences:     n,
			SuccessRate:     tally.Percent(float64(n), den),
			ContestantCount: a.holders[k],
			ExposureRate:    tally.Percent(float64(a.holders[k]), den),
		})
	}
	slices.SortFunc(out, func(x, y Pattern) int {
		if c := cmp.Compare(y.SuccessRate, x.SuccessRate); c != 0 {
			return c
		}
		if c := cmp.Compare(y.Occurrences, x.Occurrences); c != 0 {
			return c
		}
		if c := cmp.Compare(len(x.Pattern), len(y.Pattern)); c != 0 {
			return c
		}
		return cmp.Compare(x.Key, y.Key)
	})
	return out
}

// Find runs the finder over all sequences.
func Find(seqs []*model.Sequence, opts Options) []Pattern {
	acc := NewAccumulator(opts)
	for _, s := range seqs {
		acc.Observe(s)
	}
	return acc.Finalize()
}
