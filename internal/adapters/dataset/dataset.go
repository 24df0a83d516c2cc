// Package dataset reads and writes the quiz show event log as CSV, one row
// per (contestant, question).
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/okian/quizpattern/internal/domain/dedupe"
	"github.com/okian/quizpattern/internal/domain/model"
	"github.com/okian/quizpattern/pkg/logger"
	"github.com/okian/quizpattern/pkg/metrics"
)

// Column names of the log.
const (
	ColVideoID          = "video_id"
	ColContestant       = "contestant"
	ColQuestion         = "question"
	ColCorrectAnswer    = "correct_answer"
	ColContestantAnswer = "contestant_answer"
	ColCategory         = "category"
	ColLevel            = "level"
	ColAmount           = "amount"
	ColJokerUsed        = "joker_used"
	ColIsCorrect        = "is_correct"
	ColEliminated       = "eliminated"
)

// Columns lists every column in file order.
var Columns = []string{
	ColVideoID, ColContestant, ColQuestion, ColCorrectAnswer, ColContestantAnswer,
	ColCategory, ColLevel, ColAmount, ColJokerUsed, ColIsCorrect, ColEliminated,
}

var requiredColumns = []string{ColContestant, ColContestantAnswer}

const (
	// DefaultCategory is given to rows with a blank category.
	DefaultCategory = "Genel Kültür"

	// NoJoker is the log's spelling of model.JokerNone.
	NoJoker = "yok"

	cancelCheckEvery = 1024
)

// Stats counts the rows seen by one Read.
type Stats struct {
	Rows       int `json:"rows"`
	Loaded     int `json:"loaded"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}

// Reader parses event logs. A Reader must not run concurrent Reads.
type Reader struct {
	deduper         dedupe.Deduper
	defaultCategory string
	logger          logger.Logger
}

// NewReader creates a reader. By default repeated questions are dropped
// with an unbounded deduper.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		deduper:         dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0)),
		defaultCategory: DefaultCategory,
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFile reads the log stored at path.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]model.Event, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()
	return r.Read(ctx, f)
}

// Read parses a whole log. Rows without a contestant are skipped, answers
// outside A-D are read as absent, and a row repeating an accepted
// (video, contestant, question) is dropped. Events keep file order.
func (r *Reader) Read(ctx context.Context, src io.Reader) ([]model.Event, Stats, error) {
	start := time.Now()
	if r.deduper != nil {
		r.deduper.Reset()
	}

	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []model.Event{}, Stats{}, nil
	}
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: header: %w", ErrMalformed, err)
	}
	idx := indexColumns(header)
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, Stats{}, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	var (
		events = make([]model.Event, 0, 1024)
		stats  Stats
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		stats.Rows++
		if stats.Rows%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		row := record{fields: rec, idx: idx}
		e, ok := r.parse(row)
		if !ok {
			stats.Invalid++
			metrics.RecordRowInvalid()
			continue
		}
		if r.seen(ctx, e) {
			stats.Duplicates++
			metrics.RecordRowDuplicate()
			continue
		}
		events = append(events, e)
		stats.Loaded++
		metrics.RecordRowLoaded()
	}

	r.logger.Info(ctx, "dataset loaded",
		logger.Int("rows", stats.Rows),
		logger.Int("loaded", stats.Loaded),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("invalid", stats.Invalid),
		logger.Duration("took", time.Since(start)),
	)
	return events, stats, nil
}

// seen reports whether e repeats an accepted question. Rows without an
// identity are always kept.
func (r *Reader) seen(ctx context.Context, e model.Event) bool {
	if r.deduper == nil {
		return false
	}
	key, ok := dedupe.Fingerprint(e)
	return ok && r.deduper.SeenAndRecord(ctx, key)
}

func (r *Reader) parse(row record) (model.Event, bool) {
	contestant := row.get(ColContestant)
	if contestant == "" {
		return model.Event{}, false
	}
	chosen, _ := model.ParseAnswer(row.get(ColContestantAnswer))
	correct, _ := model.ParseAnswer(row.get(ColCorrectAnswer))
	category := row.get(ColCategory)
	if category == "" {
		category = r.defaultCategory
	}
	return model.Event{
		ContestantID: contestant,
		VideoID:      row.get(ColVideoID),
		Question:     row.get(ColQuestion),
		Level:        int(parseNumber(row.get(ColLevel))),
		Category:     category,
		Chosen:       chosen,
		Correct:      correct,
		IsCorrect:    parseBool(row.get(ColIsCorrect)),
		Eliminated:   parseBool(row.get(ColEliminated)),
		Amount:       parseNumber(row.get(ColAmount)),
		Joker:        parseJoker(row.get(ColJokerUsed)),
	}, true
}

type record struct {
	fields []string
	idx    map[string]int
}

// get returns the trimmed cell of column, or "" when the column or the cell
// is missing.
func (r record) get(column string) string {
	i, ok := r.idx[column]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func indexColumns(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}

// parseNumber reads integers and floats ("3", "3.0", "1000000.0"); anything
// else is 0.
func parseNumber(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}

func parseJoker(s string) model.Joker {
	if s == "" || strings.EqualFold(s, NoJoker) || strings.EqualFold(s, string(model.JokerNone)) {
		return model.JokerNone
	}
	return model.Joker(s)
}
