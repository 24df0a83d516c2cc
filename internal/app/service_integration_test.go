package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/quizpattern/internal/adapters/dataset"
	"github.com/okian/quizpattern/internal/adapters/repository"
	service "github.com/okian/quizpattern/internal/app"
	"github.com/okian/quizpattern/internal/domain/analysis"
	"github.com/okian/quizpattern/internal/domain/report"
	"github.com/okian/quizpattern/internal/sampledata"
	. "github.com/smartystreets/goconvey/convey"
)

func writeLog(t *testing.T, cfg *sampledata.Config) (string, int) {
	t.Helper()
	events, err := sampledata.Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	path := filepath.Join(t.TempDir(), "log.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := dataset.Write(f, events); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path, len(events)
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service reading a generated log from disk", t, func() {
		path, rows := writeLog(t, &sampledata.Config{Contestants: 60, PerEpisode: 6, Seed: 7, DuplicateRate: 0.1})
		svc := service.New(
			service.WithSource(service.FileSource(path)),
			service.WithWorkerCount(3),
			service.WithQueueSize(2),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then the reader should drop the repeated rows", func() {
			So(len(svc.Events()), ShouldBeLessThan, rows)
			So(svc.GetStats()["contestants"], ShouldEqual, 60)
		})

		Convey("When processing the log end-to-end", func() {
			rep, err := svc.Report(ctx)
			So(err, ShouldBeNil)

			Convey("Then the parallel run should match a single pass over the deduplicated log", func() {
				want, err := analysis.Run(svc.Events(), analysis.DefaultOptions())
				So(err, ShouldBeNil)
				got, err := rep.JSON()
				So(err, ShouldBeNil)
				exp, err := want.JSON()
				So(err, ShouldBeNil)
				So(string(got), ShouldEqual, string(exp))
			})

			Convey("Then every section should be served", func() {
				for _, name := range report.Sections {
					sec, err := svc.Section(ctx, name)
					So(err, ShouldBeNil)
					So(sec, ShouldNotBeNil)
				}
			})

			Convey("Then the run should be recorded", func() {
				stats := svc.GetStats()
				So(stats["runs"], ShouldEqual, 1)
				So(stats["lastRunPartitions"], ShouldBeGreaterThan, 1)
			})
		})

		Convey("When querying standings", func() {
			top, err := svc.TopN(ctx, 10)
			So(err, ShouldBeNil)

			Convey("Then they should be ranked by winnings", func() {
				So(len(top), ShouldEqual, 10)
				for i := 1; i < len(top); i++ {
					So(top[i-1].Winnings, ShouldBeGreaterThanOrEqualTo, top[i].Winnings)
					So(top[i].Rank, ShouldEqual, i+1)
				}
			})

			Convey("Then a contestant's rank should agree with the top list", func() {
				got, err := svc.Rank(ctx, top[3].ContestantID)
				So(err, ShouldBeNil)
				So(got.Rank, ShouldEqual, 4)
			})

			Convey("Then unknown contestants and bad limits should be rejected", func() {
				_, err := svc.Rank(ctx, "Contestant_9999")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				_, err = svc.TopN(ctx, 0)
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			})
		})

		Convey("When many readers query concurrently", func() {
			var wg sync.WaitGroup
			errs := make(chan error, 40)
			for i := 0; i < 20; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					_, err := svc.Report(ctx)
					errs <- err
				}()
				go func() {
					defer wg.Done()
					_, err := svc.TopN(ctx, 5)
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)

			Convey("Then every query should succeed with a single run", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
				So(svc.GetStats()["runs"], ShouldEqual, 1)
			})
		})
	})

	Convey("Given a service pointed at a missing file", t, func() {
		svc := service.New(service.WithSource(service.FileSource(filepath.Join(t.TempDir(), "absent.csv"))))

		Convey("Then Start should fail with a source error", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, service.ErrSource), ShouldBeTrue)
			So(errors.Is(err, dataset.ErrOpen), ShouldBeTrue)
		})
	})
}

func TestServiceStop_RejectsReport(t *testing.T) {
	Convey("Given a started service with a generated log", t, func() {
		events, err := sampledata.Generate(&sampledata.Config{Contestants: 200, PerEpisode: 10, Seed: 3})
		So(err, ShouldBeNil)
		svc := service.New(service.WithSource(service.StaticSource(events)), service.WithWorkerCount(1), service.WithQueueSize(1))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When the service stops before the report is requested", func() {
			svc.Stop()
			_, err := svc.Report(context.Background())

			Convey("Then the report should not be computed", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(svc.GetStats()["runs"], ShouldEqual, 0)
			})
		})
	})
}
