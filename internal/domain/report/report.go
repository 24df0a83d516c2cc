// Package report assembles the finalized analysis tables into the nested,
// serialization-stable report handed to presentation layers.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/okian/quizpattern/internal/domain/behavior"
	"github.com/okian/quizpattern/internal/domain/cluster"
	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/internal/domain/pattern"
	"github.com/okian/quizpattern/internal/domain/transition"
	"github.com/okian/quizpattern/internal/domain/winning"
)

// Section names, also the top-level JSON keys of a Report.
const (
	SectionSummary      = "summary_statistics"
	SectionClusters     = "performance_clusters"
	SectionTransitions  = "transition_matrices"
	SectionFirstChoice  = "first_choice_patterns"
	SectionSequential   = "sequential_patterns"
	SectionDeep         = "deep_sequential_patterns"
	SectionCorrectWrong = "correct_wrong_patterns"
	SectionLevels       = "level_based_patterns"
	SectionWinning      = "winning_patterns"
)

// Sections lists every section in report order.
var Sections = []string{
	SectionSummary,
	SectionClusters,
	SectionTransitions,
	SectionFirstChoice,
	SectionSequential,
	SectionDeep,
	SectionCorrectWrong,
	SectionLevels,
	SectionWinning,
}

// Summary holds the dataset-wide counts.
type Summary struct {
	TotalContestants              int     `json:"total_contestants"`
	TotalQuestions                int     `json:"total_questions"`
	AverageQuestionsPerContestant float64 `json:"average_questions_per_contestant"`
	EliminationRate               float64 `json:"elimination_rate"`
}

// Report is the full analysis output. Every map key is a plain string
// encoding (pattern keys, decimal levels, "length_<L>"), so encoding/json
// renders it byte-for-byte reproducibly.
type Report struct {
	Summary      Summary                                          `json:"summary_statistics"`
	Clusters     cluster.Clusters                                 `json:"performance_clusters"`
	Transitions  *transition.Matrices                             `json:"transition_matrices"`
	FirstChoice  map[model.Answer]behavior.FirstChoice            `json:"first_choice_patterns"`
	Sequential   pattern.Result                                   `json:"sequential_patterns"`
	Deep         pattern.DeepResult                               `json:"deep_sequential_patterns"`
	CorrectWrong map[string]behavior.StateStats                   `json:"correct_wrong_patterns"`
	Levels       map[string]map[model.Answer]behavior.LevelChoice `json:"level_based_patterns"`
	Winning      []winning.Pattern                                `json:"winning_patterns"`
}

// Section returns the named part of the report.
func (r *Report) Section(name string) (any, error) {
	switch name {
	case SectionSummary:
		return r.Summary, nil
	case SectionClusters:
		return r.Clusters, nil
	case SectionTransitions:
		return r.Transitions, nil
	case SectionFirstChoice:
		return r.FirstChoice, nil
	case SectionSequential:
		return r.Sequential, nil
	case SectionDeep:
		return r.Deep, nil
	case SectionCorrectWrong:
		return r.CorrectWrong, nil
	case SectionLevels:
		return r.Levels, nil
	case SectionWinning:
		return r.Winning, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
}

// JSON renders the report with two-space indentation.
func (r *Report) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return b, nil
}
