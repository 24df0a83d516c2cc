package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStandingOf(t *testing.T) {
	Convey("Given a contestant who answered four questions", t, func() {
		s := &model.Sequence{
			ID:         "c1",
			Choices:    []model.Answer{model.AnswerA, model.AnswerB, model.NoAnswer, model.AnswerD},
			Correct:    []bool{true, true, false, true},
			Levels:     []int{1, 2, 3, 4},
			Jokers:     []model.Joker{model.JokerNone, "seyirci", model.JokerNone, "telefon"},
			Amounts:    []float64{1000, 2000, 3000, 5000},
			FinalLevel: 4,
			Eliminated: false,
		}

		Convey("When summarizing the sequence", func() {
			st := types.StandingOf(s)

			Convey("Then the counters come from the sequence", func() {
				So(st.ContestantID, ShouldEqual, "c1")
				So(st.TotalQuestions, ShouldEqual, 4)
				So(st.CorrectAnswers, ShouldEqual, 3)
				So(st.Accuracy, ShouldEqual, 75.0)
				So(st.MaxLevel, ShouldEqual, 4)
				So(st.JokersUsed, ShouldEqual, 2)
				So(st.Eliminated, ShouldBeFalse)
			})

			Convey("And winnings are the prize of the highest correct level", func() {
				So(st.Winnings, ShouldEqual, 5000.0)
			})
		})

		Convey("When the last question was missed", func() {
			s.Correct[3] = false
			So(types.StandingOf(s).Winnings, ShouldEqual, 2000.0)
		})
	})

	Convey("Given a standing", t, func() {
		st := types.Standing{Rank: 2, ContestantID: "c9", Winnings: 1500, MaxLevel: 6}

		Convey("When encoded", func() {
			b, err := json.Marshal(st)
			So(err, ShouldBeNil)

			Convey("Then snake_case keys are used", func() {
				So(string(b), ShouldContainSubstring, `"contestant_id":"c9"`)
				So(string(b), ShouldContainSubstring, `"max_level":6`)
				So(string(b), ShouldContainSubstring, `"winnings":1500`)
			})
		})
	})
}
