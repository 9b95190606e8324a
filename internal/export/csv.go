package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nvandessel/flipstudy/internal/models"
	"github.com/nvandessel/flipstudy/internal/spacing"
)

// WriteCSV writes the header and one line per row.
func WriteCSV(w io.Writer, rows []spacing.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.FactID,
			strconv.FormatInt(r.StartTime, 10),
			strconv.FormatInt(r.ReactionTime, 10),
			strconv.FormatBool(r.Correct),
			strconv.FormatBool(r.Flipped),
			formatFloat(r.Alpha),
			formatFloat(r.Activation),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var testColumns = []string{"fact_id", "question", "answer", "flipped", "typed", "correct", "reaction_time"}

// WriteTestResultsCSV writes post-session test answers to w.
func WriteTestResultsCSV(w io.Writer, results []models.TestResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(testColumns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range results {
		rec := []string{
			r.Fact.ID,
			r.Fact.Question,
			r.Fact.Answer,
			strconv.FormatBool(r.Fact.Flipped),
			r.Typed,
			strconv.FormatBool(r.Correct),
			strconv.FormatInt(models.Millis(r.ReactionTime), 10),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTestResults writes post-session test answers to the CSV file at path.
func WriteTestResults(path string, results []models.TestResult) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating test results file: %w", err)
	}
	err = WriteTestResultsCSV(f, results)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
