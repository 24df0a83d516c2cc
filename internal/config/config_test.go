package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/quizpattern/internal/config"
	"github.com/okian/quizpattern/internal/domain/analysis"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 500_000)
			convey.So(cfg.MaxStandingsLimit, convey.ShouldEqual, 100)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the analysis options equal the package defaults", func() {
			convey.So(cfg.AnalysisOptions(), convey.ShouldResemble, analysis.DefaultOptions())
		})
	})
}
