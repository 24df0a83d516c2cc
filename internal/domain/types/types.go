// Package types contains common types used across the application
package types

import (
	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/internal/domain/tally"
)

// Standing is one contestant's performance summary, ranked by winnings.
type Standing struct {
	Rank           int     `json:"rank"`
	ContestantID   string  `json:"contestant_id"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	Accuracy       float64 `json:"accuracy"`
	MaxLevel       int     `json:"max_level"`
	Winnings       float64 `json:"winnings"`
	JokersUsed     int     `json:"jokers_used"`
	Eliminated     bool    `json:"eliminated"`
}

// StandingOf summarizes a contestant sequence. Rank is left to the store.
func StandingOf(s *model.Sequence) Standing {
	correct := s.CorrectCount()
	return Standing{
		ContestantID:   s.ID,
		TotalQuestions: s.Len(),
		CorrectAnswers: correct,
		Accuracy:       tally.Percent(float64(correct), float64(s.Len())),
		MaxLevel:       s.FinalLevel,
		Winnings:       s.Winnings(),
		JokersUsed:     s.JokerCount(),
		Eliminated:     s.Eliminated,
	}
}
