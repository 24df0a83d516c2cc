// Package behavior derives per-answer behavior tables: what contestants do
// after their opening answer, after a correct or wrong answer, and at each
// level.
package behavior

import (
	"cmp"
	"slices"

	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/internal/domain/tally"
)

// DefaultPrefix is how many opening choices are kept per contestant.
const DefaultPrefix = 5

// FirstChoice summarizes the contestants who opened with the same answer.
type FirstChoice struct {
	TotalContestants   int                         `json:"total_contestants"`
	SecondChoices      tally.Counter[model.Answer] `json:"second_choices"`
	ThirdChoices       tally.Counter[model.Answer] `json:"third_choices"`
	EliminationRate    float64                     `json:"elimination_rate"`
	AverageFinalLevel  float64                     `json:"average_final_level"`
	AverageCorrectRate float64                     `json:"average_correct_rate"`
	ChoiceSequences    [][]model.Answer            `json:"choice_sequences"`
}

type opener struct {
	order       int
	correctRate float64
	prefix      []model.Answer
}

type firstEntry struct {
	eliminated int
	levels     int
	second     tally.Counter[model.Answer]
	third      tally.Counter[model.Answer]
	openers    []opener
}

// FirstChoices accumulates FirstChoice rows keyed by the opening answer.
type FirstChoices struct {
	prefix  int
	entries map[model.Answer]*firstEntry
}

// NewFirstChoices keeps up to prefix opening choices per contestant.
func NewFirstChoices(prefix int) *FirstChoices {
	if prefix <= 0 {
		prefix = DefaultPrefix
	}
	return &FirstChoices{prefix: prefix, entries: make(map[model.Answer]*firstEntry)}
}

func (f *FirstChoices) entry(k model.Answer) *firstEntry {
	e, ok := f.entries[k]
	if !ok {
		e = &firstEntry{
			second: tally.NewCounter[model.Answer](),
			third:  tally.NewCounter[model.Answer](),
		}
		f.entries[k] = e
	}
	return e
}

// Observe records s when its first answer is present.
func (f *FirstChoices) Observe(s *model.Sequence) {
	n := s.Len()
	if n == 0 || !s.Choices[0].Present() {
		return
	}
	e := f.entry(s.Choices[0])
	e.levels += s.FinalLevel
	if s.Eliminated {
		e.eliminated++
	}
	if n > 1 && s.Choices[1].Present() {
		e.second.Inc(s.Choices[1])
	}
	if n > 2 && s.Choices[2].Present() {
		e.third.Inc(s.Choices[2])
	}
	e.openers = append(e.openers, opener{
		order:       s.Order,
		correctRate: tally.Ratio(float64(s.CorrectCount()), float64(n)),
		prefix:      slices.Clone(s.Choices[:min(n, f.prefix)]),
	})
}

// Merge folds other into f.
func (f *FirstChoices) Merge(other *FirstChoices) {
	if other == nil {
		return
	}
	for k, oe := range other.entries {
		e := f.entry(k)
		e.eliminated += oe.eliminated
		e.levels += oe.levels
		e.second.Merge(oe.second)
		e.third.Merge(oe.third)
		e.openers = append(e.openers, oe.openers...)
	}
}

// Finalize computes the averages. Openers are summed in first-appearance
// order, independent of partitioning.
func (f *FirstChoices) Finalize() map[model.Answer]FirstChoice {
	out := make(map[model.Answer]FirstChoice, len(f.entries))
	for k, e := range f.entries {
		openers := slices.Clone(e.openers)
		slices.SortFunc(openers, func(a, b opener) int { return cmp.Compare(a.order, b.order) })
		total := len(openers)
		seqs := make([][]model.Answer, total)
		rates := 0.0
		for i, o := range openers {
			seqs[i] = o.prefix
			rates += o.correctRate
		}
		den := float64(total)
		out[k] = FirstChoice{
			TotalContestants:   total,
			SecondChoices:      e.second.Clone(),
			ThirdChoices:       e.third.Clone(),
			EliminationRate:    tally.Percent(float64(e.eliminated), den),
			AverageFinalLevel:  tally.Ratio(float64(e.levels), den),
			AverageCorrectRate: tally.Percent(rates, den),
			ChoiceSequences:    seqs,
		}
	}
	return out
}
