// Package model contains domain models passed between layers.
package model

import "strings"

// Answer is an answer letter chosen by a contestant or revealed as correct.
// The zero value NoAnswer means the contestant did not respond.
type Answer string

// Answer letters of the show.
const (
	NoAnswer Answer = ""
	AnswerA  Answer = "A"
	AnswerB  Answer = "B"
	AnswerC  Answer = "C"
	AnswerD  Answer = "D"
)

// Answers lists the concrete answer alphabet in display order.
var Answers = []Answer{AnswerA, AnswerB, AnswerC, AnswerD} //nolint:gochecknoglobals // fixed alphabet

// ParseAnswer normalizes raw input to an Answer. Anything outside the A-D
// alphabet (blank, "nan", "-", lowercase noise) is reported as absent.
func ParseAnswer(raw string) (Answer, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	switch Answer(s) {
	case AnswerA, AnswerB, AnswerC, AnswerD:
		return Answer(s), true
	}
	return NoAnswer, false
}

// Present reports whether the answer carries a concrete symbol.
func (a Answer) Present() bool { return a != NoAnswer }

// MarshalJSON renders an absent answer as null.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a == NoAnswer {
		return []byte("null"), nil
	}
	return []byte(`"` + string(a) + `"`), nil
}

// Joker is the lifeline a contestant used on a question.
type Joker string

// JokerNone marks a question answered without a lifeline.
const JokerNone Joker = "none"

// Used reports whether a lifeline was spent on the question.
func (j Joker) Used() bool { return j != JokerNone && j != "" }

// Event is one (contestant, question) record of the log. It is treated as
// immutable once handed to the analysis core.
type Event struct {
	ContestantID string
	VideoID      string // episode the question was asked in, optional
	Question     string // question text, optional
	Level        int    // difficulty level, 1-based
	Category     string
	Chosen       Answer // NoAnswer when time ran out
	Correct      Answer
	IsCorrect    bool
	Eliminated   bool // contestant left the show at or after this question
	Amount       float64
	Joker        Joker
}
