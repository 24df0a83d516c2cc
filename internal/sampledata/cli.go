package sampledata

import (
	"io"
)

// ShowHelp prints usage information for the dataset generator.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Quiz Pattern Dataset Generator
==============================

Writes a synthetic quiz show log in the CSV layout read by the analyzer and,
optionally, checks a running service that loaded it.

Usage:
  go run ./cmd/gen-dataset [options]

Options:
  -out string
        CSV output path (default "milyoner_sample.csv")
  -contestants int
        Number of contestants (default 500)
  -per-episode int
        Contestants per episode (default 4)
  -seed uint
        Random seed; equal seeds give equal files (default 1)
  -dup float
        Share of rows written twice, exercising deduplication (default 0.01)
  -url string
        Base URL of a service to verify after writing (default: skip)
  -timeout duration
        HTTP request timeout (default 30s)
  -help
        Show this help message

Examples:
  go run ./cmd/gen-dataset -contestants 2000 -seed 42 -out data/sample.csv
  QUIZ_DATASET_PATH=data/sample.csv go run ./cmd &
  go run ./cmd/gen-dataset -contestants 2000 -seed 42 -out data/sample.csv -url http://localhost:9080
`)
}
