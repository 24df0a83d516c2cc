package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/okian/quizpattern/internal/domain/model"
)

// Write renders events in the log layout read by Reader.
func Write(w io.Writer, events []model.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(Columns))
	for i := range events {
		e := &events[i]
		joker := NoJoker
		if e.Joker.Used() {
			joker = string(e.Joker)
		}
		row[0] = e.VideoID
		row[1] = e.ContestantID
		row[2] = e.Question
		row[3] = string(e.Correct)
		row[4] = string(e.Chosen)
		row[5] = e.Category
		row[6] = strconv.Itoa(e.Level)
		row[7] = strconv.FormatFloat(e.Amount, 'f', -1, 64)
		row[8] = joker
		row[9] = formatBool(e.IsCorrect)
		row[10] = formatBool(e.Eliminated)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
