package dataset_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/quizpattern/internal/adapters/dataset"
	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

const sampleLog = `video_id,contestant,question,correct_answer,contestant_answer,category,level,amount,joker_used,is_correct,eliminated
v1,Ayşe,Başkent?,A,A,Coğrafya,1,1000.0,yok,True,False
v1,Ayşe,Başkent?,A,A,Coğrafya,1,1000.0,yok,True,False
v1,Ayşe,Yıl?,C,b,,2,2000,telefon,False,True
v1,,Boş?,A,A,Tarih,1,1000,yok,True,False
v2,Mehmet,Renk?,D,nan,Sanat,3.0,abc,,False,False
`

func TestReader_Read(t *testing.T) {
	convey.Convey("Given a log with duplicates, blanks and noise", t, func() {
		r := dataset.NewReader()

		convey.Convey("When reading it", func() {
			events, stats, err := r.Read(context.Background(), strings.NewReader(sampleLog))

			convey.Convey("Then the counts should reflect the cleanup", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stats, convey.ShouldResemble, dataset.Stats{Rows: 5, Loaded: 3, Duplicates: 1, Invalid: 1})
				convey.So(len(events), convey.ShouldEqual, 3)
			})

			convey.Convey("Then the fields should be normalized", func() {
				first := events[0]
				convey.So(first.ContestantID, convey.ShouldEqual, "Ayşe")
				convey.So(first.VideoID, convey.ShouldEqual, "v1")
				convey.So(first.Chosen, convey.ShouldEqual, model.AnswerA)
				convey.So(first.IsCorrect, convey.ShouldBeTrue)
				convey.So(first.Amount, convey.ShouldEqual, 1000.0)
				convey.So(first.Joker, convey.ShouldEqual, model.JokerNone)

				second := events[1]
				convey.So(second.Chosen, convey.ShouldEqual, model.AnswerB)
				convey.So(second.Correct, convey.ShouldEqual, model.AnswerC)
				convey.So(second.Category, convey.ShouldEqual, dataset.DefaultCategory)
				convey.So(second.Joker, convey.ShouldEqual, model.Joker("telefon"))
				convey.So(second.Eliminated, convey.ShouldBeTrue)

				third := events[2]
				convey.So(third.Chosen.Present(), convey.ShouldBeFalse)
				convey.So(third.Level, convey.ShouldEqual, 3)
				convey.So(third.Amount, convey.ShouldEqual, 0.0)
				convey.So(third.Joker, convey.ShouldEqual, model.JokerNone)
			})
		})

		convey.Convey("When reading the same log twice", func() {
			_, first, err := r.Read(context.Background(), strings.NewReader(sampleLog))
			convey.So(err, convey.ShouldBeNil)
			_, second, err := r.Read(context.Background(), strings.NewReader(sampleLog))
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then each read should deduplicate independently", func() {
				convey.So(second, convey.ShouldResemble, first)
			})
		})

		convey.Convey("When deduplication is disabled", func() {
			events, stats, err := dataset.NewReader(dataset.WithDeduper(nil)).
				Read(context.Background(), strings.NewReader(sampleLog))

			convey.Convey("Then repeated rows should be kept", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stats.Duplicates, convey.ShouldEqual, 0)
				convey.So(len(events), convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When rows carry no question text or episode", func() {
			const unlabelled = `video_id,contestant,question,correct_answer,contestant_answer,category,level,amount,joker_used,is_correct,eliminated
v1,Ayşe,,A,A,Coğrafya,1,1000,yok,True,False
v1,Ayşe,,B,C,Coğrafya,1,1000,yok,False,False
,Ayşe,Başkent?,A,A,Coğrafya,2,2000,yok,True,False
,Ayşe,Başkent?,A,A,Coğrafya,2,2000,yok,True,False
`
			events, stats, err := dataset.NewReader(dataset.WithDedupeSize(16)).
				Read(context.Background(), strings.NewReader(unlabelled))

			convey.Convey("Then none of them should be treated as repeats", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stats.Duplicates, convey.ShouldEqual, 0)
				convey.So(len(events), convey.ShouldEqual, 4)
			})
		})
	})
}

func TestReader_Errors(t *testing.T) {
	convey.Convey("Given a reader", t, func() {
		r := dataset.NewReader()
		ctx := context.Background()

		convey.Convey("When the input is empty", func() {
			events, stats, err := r.Read(ctx, strings.NewReader(""))

			convey.Convey("Then it should yield an empty log", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(events, convey.ShouldBeEmpty)
				convey.So(stats.Rows, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When a required column is missing", func() {
			_, _, err := r.Read(ctx, strings.NewReader("video_id,contestant\nv1,a\n"))

			convey.Convey("Then it should name the column", func() {
				convey.So(errors.Is(err, dataset.ErrMissingColumn), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "contestant_answer")
			})
		})

		convey.Convey("When a quoted field is broken", func() {
			_, _, err := r.Read(ctx, strings.NewReader("contestant,contestant_answer\n\"a,B\n"))

			convey.Convey("Then it should report malformed csv", func() {
				convey.So(errors.Is(err, dataset.ErrMalformed), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, _, err := r.ReadFile(ctx, filepath.Join(t.TempDir(), "missing.csv"))

			convey.Convey("Then it should report the open failure", func() {
				convey.So(errors.Is(err, dataset.ErrOpen), convey.ShouldBeTrue)
			})
		})
	})
}

func TestWrite(t *testing.T) {
	convey.Convey("Given events", t, func() {
		events := []model.Event{
			{VideoID: "v9", ContestantID: "Zeynep", Question: "Q1", Level: 1, Category: "Spor",
				Chosen: model.AnswerD, Correct: model.AnswerD, IsCorrect: true, Amount: 1000, Joker: model.JokerNone},
			{VideoID: "v9", ContestantID: "Zeynep", Question: "Q2, zor", Level: 2, Category: "Bilim",
				Chosen: model.NoAnswer, Correct: model.AnswerA, Eliminated: true, Amount: 2500.5, Joker: "seyirci"},
		}

		convey.Convey("When written and read back through a file", func() {
			var buf bytes.Buffer
			convey.So(dataset.Write(&buf, events), convey.ShouldBeNil)

			path := filepath.Join(t.TempDir(), "log.csv")
			convey.So(os.WriteFile(path, buf.Bytes(), 0o600), convey.ShouldBeNil)
			got, stats, err := dataset.NewReader().ReadFile(context.Background(), path)

			convey.Convey("Then the events should survive unchanged", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stats.Loaded, convey.ShouldEqual, 2)
				convey.So(got, convey.ShouldResemble, events)
			})

			convey.Convey("Then the header and sentinels should follow the log layout", func() {
				lines := strings.Split(buf.String(), "\n")
				convey.So(lines[0], convey.ShouldEqual, strings.Join(dataset.Columns, ","))
				convey.So(lines[1], convey.ShouldContainSubstring, ",yok,True,False")
				convey.So(lines[2], convey.ShouldContainSubstring, `"Q2, zor"`)
			})
		})
	})
}
