// Package transition builds first-order transition tables over contestant
// sequences.
//
// Every table is a commutative accumulator: it only depends on the multiset of
// observed pairs, so tables built over disjoint contestant partitions can be
// merged in any order.
package transition

import (
	"strconv"

	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/internal/domain/tally"
)

// Correctness state labels.
const (
	StateCorrect = "correct"
	StateWrong   = "wrong"
)

// Label maps a correctness flag to its state label.
func Label(correct bool) string {
	if correct {
		return StateCorrect
	}
	return StateWrong
}

// Matrix maps a source state to the counts of the destinations observed
// after it.
type Matrix map[string]tally.Counter[string]

// Add records one src -> dst observation.
func (m Matrix) Add(src, dst string) {
	row, ok := m[src]
	if !ok {
		row = tally.NewCounter[string]()
		m[src] = row
	}
	row.Inc(dst)
}

// Merge folds other into m.
func (m Matrix) Merge(other Matrix) {
	for src, row := range other {
		for dst, n := range row {
			if n <= 0 {
				continue
			}
			if _, ok := m[src]; !ok {
				m[src] = tally.NewCounter[string]()
			}
			m[src].Add(dst, n)
		}
	}
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for src, row := range m {
		out[src] = row.Clone()
	}
	return out
}

// Total returns the number of observations across all sources.
func (m Matrix) Total() int {
	t := 0
	for _, row := range m {
		t += row.Total()
	}
	return t
}

// Matrices bundles the four transition tables.
type Matrices struct {
	ChoiceToChoice Matrix `json:"choice_to_choice"`
	CorrectWrong   Matrix `json:"correct_wrong_transitions"`
	LevelChoice    Matrix `json:"level_transitions"`
	CategoryChoice Matrix `json:"category_transitions"`
}

// New returns empty tables.
func New() *Matrices {
	return &Matrices{
		ChoiceToChoice: make(Matrix),
		CorrectWrong:   make(Matrix),
		LevelChoice:    make(Matrix),
		CategoryChoice: make(Matrix),
	}
}

// Build computes the tables over all sequences.
func Build(seqs []*model.Sequence) *Matrices {
	m := New()
	for _, s := range seqs {
		m.Observe(s)
	}
	return m
}

// Observe adds one contestant's contributions.
func (m *Matrices) Observe(s *model.Sequence) {
	n := s.Len()
	for i := 0; i < n; i++ {
		cur := s.Choices[i]
		// level -> choice is a single-step count, not a pair.
		if cur.Present() {
			m.LevelChoice.Add(strconv.Itoa(s.Levels[i]), string(cur))
		}
		if i+1 >= n {
			continue
		}
		next := s.Choices[i+1]
		if cur.Present() && next.Present() {
			m.ChoiceToChoice.Add(string(cur), string(next))
		}
		m.CorrectWrong.Add(Label(s.Correct[i]), Label(s.Correct[i+1]))
		if next.Present() {
			m.CategoryChoice.Add(s.Categories[i], string(next))
		}
	}
}

// Clone returns a deep copy of m, detached from further observations.
func (m *Matrices) Clone() *Matrices {
	return &Matrices{
		ChoiceToChoice: m.ChoiceToChoice.Clone(),
		CorrectWrong:   m.CorrectWrong.Clone(),
		LevelChoice:    m.LevelChoice.Clone(),
		CategoryChoice: m.CategoryChoice.Clone(),
	}
}

// Merge folds other into m.
func (m *Matrices) Merge(other *Matrices) {
	if other == nil {
		return
	}
	m.ChoiceToChoice.Merge(other.ChoiceToChoice)
	m.CorrectWrong.Merge(other.CorrectWrong)
	m.LevelChoice.Merge(other.LevelChoice)
	m.CategoryChoice.Merge(other.CategoryChoice)
}
