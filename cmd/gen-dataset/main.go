package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/okian/quizpattern/internal/adapters/dataset"
	"github.com/okian/quizpattern/internal/sampledata"
	"github.com/okian/quizpattern/pkg/logger"
)

// Default configuration constants.
const (
	defaultOutput      = "milyoner_sample.csv"
	defaultContestants = 500
	defaultPerEpisode  = 4
	defaultSeed        = 1
	defaultDupRate     = 0.01
	defaultTimeout     = 30 * time.Second
	defaultTopN        = 10
	defaultVerifyLimit = 5 * time.Minute
)

func main() {
	var (
		out         = flag.String("out", defaultOutput, "CSV output path")
		contestants = flag.Int("contestants", defaultContestants, "Number of contestants")
		perEpisode  = flag.Int("per-episode", defaultPerEpisode, "Contestants per episode")
		seed        = flag.Uint64("seed", defaultSeed, "Random seed")
		dup         = flag.Float64("dup", defaultDupRate, "Share of rows written twice")
		baseURL     = flag.String("url", "", "Base URL of a service to verify after writing")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		sampledata.ShowHelp(os.Stdout)
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultVerifyLimit)
	defer cancel()

	cfg := &sampledata.Config{
		Contestants:   *contestants,
		PerEpisode:    *perEpisode,
		Seed:          *seed,
		DuplicateRate: *dup,
		BaseURL:       *baseURL,
		Timeout:       *timeout,
		Output:        *out,
	}
	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "generation failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *sampledata.Config) error {
	log := logger.Named("gen-dataset")

	events, err := sampledata.Generate(cfg)
	if err != nil {
		return err
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create %s: %w", cfg.Output, err)
	}
	if err := dataset.Write(f, events); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", cfg.Output, err)
	}
	log.Info(ctx, "dataset written",
		logger.String("out", cfg.Output),
		logger.Int("rows", len(events)),
		logger.Int("contestants", cfg.Contestants),
	)

	if cfg.BaseURL == "" {
		return nil
	}
	_, err = sampledata.Verify(ctx, sampledata.NewHTTPClient(cfg.BaseURL, cfg.Timeout), cfg.Contestants, defaultTopN)
	return err
}
