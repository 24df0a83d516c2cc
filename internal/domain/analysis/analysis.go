// Package analysis wires the sequence builder and every accumulator into one
// run. A Partial covers a disjoint set of contestants; partials merge
// key-wise and the merged partial finalizes into a report.
package analysis

import (
	"github.com/okian/quizpattern/internal/domain/behavior"
	"github.com/okian/quizpattern/internal/domain/cluster"
	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/internal/domain/pattern"
	"github.com/okian/quizpattern/internal/domain/report"
	"github.com/okian/quizpattern/internal/domain/sequence"
	"github.com/okian/quizpattern/internal/domain/transition"
	"github.com/okian/quizpattern/internal/domain/winning"
)

// Partial holds the accumulators of one worker. It is not safe for
// concurrent use.
type Partial struct {
	counts       report.Counts
	transitions  *transition.Matrices
	sequential   *pattern.Table
	deep         *pattern.Deep
	clusters     *cluster.Accumulator
	winning      *winning.Accumulator
	firstChoice  *behavior.FirstChoices
	correctWrong *behavior.CorrectWrong
	levels       *behavior.Levels
}

// NewPartial returns empty accumulators for opts.
func NewPartial(opts Options) (*Partial, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	seqTable, err := pattern.NewTable(opts.PatternLength)
	if err != nil {
		return nil, err
	}
	deep, err := pattern.NewDeep(opts.DeepMinLength, opts.DeepMaxLength)
	if err != nil {
		return nil, err
	}
	return &Partial{
		transitions:  transition.New(),
		sequential:   seqTable,
		deep:         deep,
		clusters:     cluster.NewAccumulator(opts.Clusters),
		winning:      winning.NewAccumulator(opts.Winning),
		firstChoice:  behavior.NewFirstChoices(opts.FirstChoicePrefix),
		correctWrong: behavior.NewCorrectWrong(),
		levels:       behavior.NewLevels(),
	}, nil
}

// Observe adds one contestant to every accumulator.
func (p *Partial) Observe(s *model.Sequence) {
	p.counts.Observe(s)
	p.transitions.Observe(s)
	p.sequential.Observe(s)
	p.deep.Observe(s)
	p.clusters.Observe(s)
	p.winning.Observe(s)
	p.firstChoice.Observe(s)
	p.correctWrong.Observe(s)
	p.levels.Observe(s)
}

// Merge folds other into p. Partials must come from the same Options.
func (p *Partial) Merge(other *Partial) error {
	if other == nil {
		return nil
	}
	if err := p.sequential.Merge(other.sequential); err != nil {
		return err
	}
	if err := p.deep.Merge(other.deep); err != nil {
		return err
	}
	p.counts.Merge(other.counts)
	p.transitions.Merge(other.transitions)
	p.clusters.Merge(other.clusters)
	p.winning.Merge(other.winning)
	p.firstChoice.Merge(other.firstChoice)
	p.correctWrong.Merge(other.correctWrong)
	p.levels.Merge(other.levels)
	return nil
}

// Contestants returns how many sequences p has observed.
func (p *Partial) Contestants() int { return p.counts.Contestants }

// TableSizes returns the number of materialized pattern keys per table.
func (p *Partial) TableSizes() map[string]int {
	sizes := map[string]int{report.SectionSequential: p.sequential.Len()}
	for l, n := range p.deep.Sizes() {
		sizes[pattern.LengthKey(l)] = n
	}
	return sizes
}

// Report finalizes every accumulator. The report shares no state with p.
func (p *Partial) Report() *report.Report {
	return &report.Report{
		Summary:      p.counts.Summary(),
		Clusters:     p.clusters.Finalize(),
		Transitions:  p.transitions.Clone(),
		FirstChoice:  p.firstChoice.Finalize(),
		Sequential:   p.sequential.Finalize(),
		Deep:         p.deep.Finalize(),
		CorrectWrong: p.correctWrong.Finalize(),
		Levels:       p.levels.Finalize(),
		Winning:      p.winning.Finalize(),
	}
}

// Reduce merges partials into a fresh partial.
func Reduce(opts Options, partials ...*Partial) (*Partial, error) {
	out, err := NewPartial(opts)
	if err != nil {
		return nil, err
	}
	for _, p := range partials {
		if err := out.Merge(p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RunSequences analyzes pre-built sequences in a single pass.
func RunSequences(seqs []*model.Sequence, opts Options) (*report.Report, error) {
	p, err := NewPartial(opts)
	if err != nil {
		return nil, err
	}
	for _, s := range seqs {
		p.Observe(s)
	}
	return p.Report(), nil
}

// Run builds the sequences of events and analyzes them in a single pass.
func Run(events []model.Event, opts Options) (*report.Report, error) {
	return RunSequences(sequence.Build(events), opts)
}
