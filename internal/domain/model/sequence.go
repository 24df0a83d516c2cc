package model

// Sequence is the ordered, read-only view over one contestant's events.
// Every parallel slice has the same length and index i refers to the same
// event in all of them.
type Sequence struct {
	ID    string
	Order int // rank of the contestant's first appearance in the log

	Choices    []Answer
	Correct    []bool
	Levels     []int
	Categories []string
	Jokers     []Joker
	Amounts    []float64

	FinalLevel int
	Eliminated bool
}

// Len returns the number of events in the sequence.
func (s *Sequence) Len() int { return len(s.Choices) }

// CorrectCount returns the number of correctly answered questions.
func (s *Sequence) CorrectCount() int {
	n := 0
	for _, ok := range s.Correct {
		if ok {
			n++
		}
	}
	return n
}

// JokerCount returns how many questions were answered with a lifeline.
func (s *Sequence) JokerCount() int {
	n := 0
	for _, j := range s.Jokers {
		if j.Used() {
			n++
		}
	}
	return n
}

// Winnings returns the prize attached to the highest level the contestant
// answered correctly, or 0 when nothing was answered correctly.
func (s *Sequence) Winnings() float64 {
	best, amount := 0, 0.0
	for i, ok := range s.Correct {
		if ok && (best == 0 || s.Levels[i] > best) {
			best, amount = s.Levels[i], s.Amounts[i]
		}
	}
	return amount
}

// Window returns choices[i:i+n] and whether every symbol in it is present.
func (s *Sequence) Window(i, n int) ([]Answer, bool) {
	if i < 0 || n <= 0 || i+n > len(s.Choices) {
		return nil, false
	}
	w := s.Choices[i : i+n]
	for _, a := range w {
		if !a.Present() {
			return w, false
		}
	}
	return w, true
}
