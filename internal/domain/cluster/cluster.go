// Package cluster partitions contestants into outcome buckets.
package cluster

import (
	"cmp"
	"slices"

	"github.com/okian/quizpattern/internal/domain/model"
)

// Bucket names a cluster in the report.
type Bucket string

// Primary buckets are exclusive; JokerDependent is a secondary tag.
const (
	HighPerformers   Bucket = "high_performers"
	MidPerformers    Bucket = "mid_performers"
	EarlyEliminators Bucket = "early_eliminators"
	JokerDependent   Bucket = "joker_dependent"
)

// Thresholds configures the bucket boundaries.
type Thresholds struct {
	High            int // final level at or above which a contestant is a high performer
	Mid             int
	JokerDependency int // minimum number of questions answered with a joker
}

// DefaultThresholds returns the show's standard boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 10, Mid: 5, JokerDependency: 2}
}

// Primary returns the exclusive bucket of s.
func (t Thresholds) Primary(s *model.Sequence) Bucket {
	switch {
	case s.FinalLevel >= t.High:
		return HighPerformers
	case s.FinalLevel >= t.Mid:
		return MidPerformers
	default:
		return EarlyEliminators
	}
}

// JokerDependent reports whether s used enough jokers to be tagged.
func (t Thresholds) JokerDependent(s *model.Sequence) bool {
	return s.JokerCount() >= t.JokerDependency
}

// Clusters is the finalized membership, each list in first-appearance order.
type Clusters struct {
	HighPerformers   []string `json:"high_performers"`
	MidPerformers    []string `json:"mid_performers"`
	EarlyEliminators []string `json:"early_eliminators"`
	JokerDependent   []string `json:"joker_dependent"`
}

// Members returns the list of the named bucket.
func (c Clusters) Members(b Bucket) []string {
	switch b {
	case HighPerformers:
		return c.HighPerformers
	case MidPerformers:
		return c.MidPerformers
	case EarlyEliminators:
		return c.EarlyEliminators
	case JokerDependent:
		return c.JokerDependent
	}
	return nil
}

type member struct {
	order int
	id    string
}

// Accumulator collects memberships; partial accumulators merge by
// concatenation.
type Accumulator struct {
	th      Thresholds
	buckets map[Bucket][]member
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator(th Thresholds) *Accumulator {
	return &Accumulator{th: th, buckets: make(map[Bucket][]member, 4)}
}

// Observe places s in its bucket(s).
func (a *Accumulator) Observe(s *model.Sequence) {
	m := member{order: s.Order, id: s.ID}
	p := a.th.Primary(s)
	a.buckets[p] = append(a.buckets[p], m)
	if a.th.JokerDependent(s) {
		a.buckets[JokerDependent] = append(a.buckets[JokerDependent], m)
	}
}

// Merge folds other into a.
func (a *Accumulator) Merge(other *Accumulator) {
	if other == nil {
		return
	}
	for b, ms := range other.buckets {
		a.buckets[b] = append(a.buckets[b], ms...)
	}
}

// Finalize returns the sorted membership lists.
func (a *Accumulator) Finalize() Clusters {
	return Clusters{
		HighPerformers:   a.ids(HighPerformers),
		MidPerformers:    a.ids(MidPerformers),
		EarlyEliminators: a.ids(EarlyEliminators),
		JokerDependent:   a.ids(JokerDependent),
	}
}

func (a *Accumulator) ids(b Bucket) []string {
	ms := slices.Clone(a.buckets[b])
	slices.SortFunc(ms, func(x, y member) int {
		if c := cmp.Compare(x.order, y.order); c != 0 {
			return c
		}
		return cmp.Compare(x.id, y.id)
	})
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.id
	}
	return out
}

// Assign clusters every sequence.
func Assign(seqs []*model.Sequence, th Thresholds) Clusters {
	acc := NewAccumulator(th)
	for _, s := range seqs {
		acc.Observe(s)
	}
	return acc.Finalize()
}
