package report

import (
	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/internal/domain/tally"
)

// Counts accumulates the raw numbers behind a Summary.
type Counts struct {
	Contestants int
	Questions   int
	Eliminated  int
}

// Observe adds one contestant.
func (c *Counts) Observe(s *model.Sequence) {
	c.Contestants++
	c.Questions += s.Len()
	if s.Eliminated {
		c.Eliminated++
	}
}

// Merge folds other into c.
func (c *Counts) Merge(other Counts) {
	c.Contestants += other.Contestants
	c.Questions += other.Questions
	c.Eliminated += other.Eliminated
}

// Summary computes the averages; an empty dataset yields zero rates.
func (c Counts) Summary() Summary {
	n := float64(c.Contestants)
	return Summary{
		TotalContestants:              c.Contestants,
		TotalQuestions:                c.Questions,
		AverageQuestionsPerContestant: tally.Ratio(float64(c.Questions), n),
		EliminationRate:               tally.Percent(float64(c.Eliminated), n),
	}
}
