// Command analyze mines a contestant log once and writes the report as JSON.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/quizpattern/internal/adapters/dataset"
	"github.com/okian/quizpattern/internal/config"
	"github.com/okian/quizpattern/internal/domain/analysis"
	"github.com/okian/quizpattern/pkg/logger"
)

const defaultOutput = "pattern_analysis.json"

func main() {
	var (
		in     = flag.String("in", "", "CSV event log to analyze (required)")
		out    = flag.String("out", defaultOutput, `Report output file, "-" for stdout`)
		format = flag.String("log-format", logger.FormatText, "Log format: text or json")
	)
	flag.Parse()

	if err := logger.Init(*format); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *in, *out); err != nil {
		logger.Get().Error(ctx, "analysis failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, in, out string) error {
	if in == "" {
		return errors.New("missing -in")
	}
	log := logger.Named("analyze")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}

	start := time.Now()
	events, stats, err := dataset.NewReader(dataset.WithLogger(log)).ReadFile(ctx, in)
	if err != nil {
		return err
	}
	rep, err := analysis.Run(events, cfg.AnalysisOptions())
	if err != nil {
		return err
	}
	body, err := rep.JSON()
	if err != nil {
		return err
	}
	if err := writeOutput(out, body); err != nil {
		return err
	}

	log.Info(ctx, "report written",
		logger.String("out", out),
		logger.Int("rows", stats.Rows),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("invalid", stats.Invalid),
		logger.Int("contestants", rep.Summary.TotalContestants),
		logger.Int("sequential_patterns", len(rep.Sequential)),
		logger.Int("winning_patterns", len(rep.Winning)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

func writeOutput(path string, body []byte) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(append(body, '\n')); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
