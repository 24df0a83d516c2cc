package behavior

import (
	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/internal/domain/tally"
	"github.com/okian/quizpattern/internal/domain/transition"
)

// StateStats describes what follows a correct or a wrong answer.
type StateStats struct {
	Occurrences       int                         `json:"occurrences"`
	NextChoices       tally.Counter[model.Answer] `json:"next_choice_distribution"`
	NextIsCorrectRate float64                     `json:"next_is_correct_rate"`
	EliminationRate   float64                     `json:"elimination_rate"`
}

type stateEntry struct {
	occurrences  int
	nextCorrect  int
	eliminations int
	next         tally.Counter[model.Answer]
}

// CorrectWrong accumulates StateStats over every adjacent pair, keyed by the
// correctness label of the earlier answer.
type CorrectWrong struct {
	entries map[string]*stateEntry
}

// NewCorrectWrong returns an empty accumulator.
func NewCorrectWrong() *CorrectWrong {
	return &CorrectWrong{entries: make(map[string]*stateEntry, 2)}
}

func (c *CorrectWrong) entry(state string) *stateEntry {
	e, ok := c.entries[state]
	if !ok {
		e = &stateEntry{next: tally.NewCounter[model.Answer]()}
		c.entries[state] = e
	}
	return e
}

// Observe records every adjacent pair of s. A pair whose second answer is the
// contestant's last counts as an elimination when the contestant was
// eliminated.
func (c *CorrectWrong) Observe(s *model.Sequence) {
	n := s.Len()
	for i := 0; i+1 < n; i++ {
		e := c.entry(transition.Label(s.Correct[i]))
		e.occurrences++
		if next := s.Choices[i+1]; next.Present() {
			e.next.Inc(next)
		}
		if s.Correct[i+1] {
			e.nextCorrect++
		}
		if s.Eliminated && i+1 == n-1 {
			e.eliminations++
		}
	}
}

// Merge folds other into c.
func (c *CorrectWrong) Merge(other *CorrectWrong) {
	if other == nil {
		return
	}
	for state, oe := range other.entries {
		e := c.entry(state)
		e.occurrences += oe.occurrences
		e.nextCorrect += oe.nextCorrect
		e.eliminations += oe.eliminations
		e.next.Merge(oe.next)
	}
}

// Finalize computes the rates.
func (c *CorrectWrong) Finalize() map[string]StateStats {
	out := make(map[string]StateStats, len(c.entries))
	for state, e := range c.entries {
		occ := float64(e.occurrences)
		out[state] = StateStats{
			Occurrences:       e.occurrences,
			NextChoices:       e.next.Clone(),
			NextIsCorrectRate: tally.Percent(float64(e.nextCorrect), occ),
			EliminationRate:   tally.Percent(float64(e.eliminations), occ),
		}
	}
	return out
}
