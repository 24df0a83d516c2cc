package sampledata

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/quizpattern/internal/domain/model"
)

// Ladder is the prize of each level, 1-based.
var Ladder = []float64{1000, 2000, 3000, 5000, 10000, 25000, 50000, 100000, 250000, 500000, 1000000}

// Categories of generated questions.
var Categories = []string{
	"Tarih", "Coğrafya", "Bilim", "Sanat", "Edebiyat", "Spor",
	"Müzik", "Genel Kültür", "Matematik", "Teknoloji",
}

// Jokers available once per contestant.
var Jokers = []model.Joker{"yarı_yarıya", "telefon", "seyirci", "değiştir"}

// Probabilities shaping a contestant's run.
const (
	baseSkillMin   = 0.55
	baseSkillRange = 0.4
	levelPenalty   = 0.035 // accuracy lost per level
	jokerChance    = 0.18
	jokerBoost     = 0.25
	timeoutChance  = 0.02 // no answer given; ends the run
	withdrawChance = 0.08 // contestant keeps the prize and leaves
)

// episodeNamespace derives stable episode ids from the seed.
var episodeNamespace = uuid.MustParse("6f1c1e0a-6a0b-4c7e-9a53-7d4c6b1f2e90")

// Generate builds a log of cfg.Contestants runs. The output only depends on
// cfg, so two calls with the same seed produce identical logs.
func Generate(cfg *Config) ([]model.Event, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	events := make([]model.Event, 0, cfg.Contestants*len(Ladder)/2)
	for i := 0; i < cfg.Contestants; i++ {
		episode := uuid.NewSHA1(episodeNamespace, fmt.Appendf(nil, "%d/%d", cfg.Seed, i/cfg.PerEpisode)).String()
		run := contestantRun(rng, episode, fmt.Sprintf("Contestant_%04d", i+1))
		for _, e := range run {
			events = append(events, e)
			if cfg.DuplicateRate > 0 && rng.Float64() < cfg.DuplicateRate {
				events = append(events, e)
			}
		}
	}
	return events, nil
}

// contestantRun plays one contestant up the ladder until a wrong answer,
// a timeout, a withdrawal or the top prize.
func contestantRun(rng *rand.Rand, episode, name string) []model.Event {
	skill := baseSkillMin + rng.Float64()*baseSkillRange
	jokers := rng.Perm(len(Jokers))
	var run []model.Event

	for level := 1; level <= len(Ladder); level++ {
		if level > 1 && rng.Float64() < withdrawChance*float64(level)/float64(len(Ladder)) {
			break
		}
		correct := model.Answers[rng.IntN(len(model.Answers))]
		e := model.Event{
			ContestantID: name,
			VideoID:      episode,
			Question:     fmt.Sprintf("%s soru %d", name, level),
			Level:        level,
			Category:     Categories[rng.IntN(len(Categories))],
			Correct:      correct,
			Amount:       Ladder[level-1],
			Joker:        model.JokerNone,
		}

		p := skill - levelPenalty*float64(level-1)
		if len(jokers) > 0 && rng.Float64() < jokerChance {
			e.Joker = Jokers[jokers[0]]
			jokers = jokers[1:]
			p += jokerBoost
		}

		switch {
		case rng.Float64() < timeoutChance:
			e.Chosen = model.NoAnswer
			e.Eliminated = true
		case rng.Float64() < p:
			e.Chosen = correct
			e.IsCorrect = true
		default:
			e.Chosen = wrongAnswer(rng, correct)
			e.Eliminated = true
		}
		run = append(run, e)
		if e.Eliminated {
			break
		}
	}
	return run
}

func wrongAnswer(rng *rand.Rand, correct model.Answer) model.Answer {
	for {
		a := model.Answers[rng.IntN(len(model.Answers))]
		if a != correct {
			return a
		}
	}
}
