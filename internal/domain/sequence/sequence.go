// Package sequence groups the event log into per-contestant sequences.
package sequence

import (
	"slices"

	"github.com/okian/quizpattern/internal/domain/model"
)

// Build partitions events by contestant and orders each partition by level.
// Events sharing a level keep their log order. The result is ordered by the
// position of each contestant's first event, which makes every downstream
// computation independent of map iteration order.
func Build(events []model.Event) []*model.Sequence {
	index := make(map[string]int)
	groups := make([][]int, 0)
	for i := range events {
		id := events[i].ContestantID
		g, ok := index[id]
		if !ok {
			g = len(groups)
			index[id] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}

	out := make([]*model.Sequence, 0, len(groups))
	for g, rows := range groups {
		slices.SortStableFunc(rows, func(a, b int) int {
			return events[a].Level - events[b].Level
		})
		out = append(out, project(events, rows, g))
	}
	return out
}

// ByID indexes sequences by contestant identifier.
func ByID(seqs []*model.Sequence) map[string]*model.Sequence {
	m := make(map[string]*model.Sequence, len(seqs))
	for _, s := range seqs {
		m[s.ID] = s
	}
	return m
}

func project(events []model.Event, rows []int, order int) *model.Sequence {
	n := len(rows)
	s := &model.Sequence{
		ID:         events[rows[0]].ContestantID,
		Order:      order,
		Choices:    make([]model.Answer, n),
		Correct:    make([]bool, n),
		Levels:     make([]int, n),
		Categories: make([]string, n),
		Jokers:     make([]model.Joker, n),
		Amounts:    make([]float64, n),
	}
	for i, r := range rows {
		e := &events[r]
		s.Choices[i] = e.Chosen
		s.Correct[i] = e.IsCorrect
		s.Levels[i] = e.Level
		s.Categories[i] = e.Category
		s.Jokers[i] = e.Joker
		s.Amounts[i] = e.Amount
		if i == 0 || e.Level > s.FinalLevel {
			s.FinalLevel = e.Level
		}
		s.Eliminated = s.Eliminated || e.Eliminated
	}
	return s
}
