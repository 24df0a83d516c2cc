package behavior

import (
	"strconv"

	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/internal/domain/tally"
)

// LevelChoice describes one answer letter given at one level.
type LevelChoice struct {
	Count           int                         `json:"count"`
	NextChoices     tally.Counter[model.Answer] `json:"next_level_choice"`
	SuccessRate     float64                     `json:"success_rate"`
	EliminationRate float64                     `json:"elimination_rate"`
}

type levelKey struct {
	level  int
	choice model.Answer
}

type levelEntry struct {
	count        int
	correct      int
	eliminations int
	next         tally.Counter[model.Answer]
}

// Levels accumulates LevelChoice rows per (level, answer).
type Levels struct {
	entries map[levelKey]*levelEntry
}

// NewLevels returns an empty accumulator.
func NewLevels() *Levels {
	return &Levels{entries: make(map[levelKey]*levelEntry)}
}

func (l *Levels) entry(k levelKey) *levelEntry {
	e, ok := l.entries[k]
	if !ok {
		e = &levelEntry{next: tally.NewCounter[model.Answer]()}
		l.entries[k] = e
	}
	return e
}

// Observe records every present answer of s. The last answer of an
// eliminated contestant counts as an elimination.
func (l *Levels) Observe(s *model.Sequence) {
	n := s.Len()
	for i := 0; i < n; i++ {
		choice := s.Choices[i]
		if !choice.Present() {
			continue
		}
		e := l.entry(levelKey{level: s.Levels[i], choice: choice})
		e.count++
		if s.Correct[i] {
			e.correct++
		}
		if i+1 < n && s.Choices[i+1].Present() {
			e.next.Inc(s.Choices[i+1])
		}
		if s.Eliminated && i == n-1 {
			e.eliminations++
		}
	}
}

// Merge folds other into l.
func (l *Levels) Merge(other *Levels) {
	if other == nil {
		return
	}
	for k, oe := range other.entries {
		e := l.entry(k)
		e.count += oe.count
		e.correct += oe.correct
		e.eliminations += oe.eliminations
		e.next.Merge(oe.next)
	}
}

// Finalize computes the rates, keyed by the decimal level then the answer.
func (l *Levels) Finalize() map[string]map[model.Answer]LevelChoice {
	out := make(map[string]map[model.Answer]LevelChoice)
	for k, e := range l.entries {
		level := strconv.Itoa(k.level)
		row, ok := out[level]
		if !ok {
			row = make(map[model.Answer]LevelChoice)
			out[level] = row
		}
		cnt := float64(e.count)
		row[k.choice] = LevelChoice{
			Count:           e.count,
			NextChoices:     e.next.Clone(),
			SuccessRate:     tally.Percent(float64(e.correct), cnt),
			EliminationRate: tally.Percent(float64(e.eliminations), cnt),
		}
	}
	return out
}
