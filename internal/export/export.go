// Package export writes the enriched response log of a study session.
//
// The format follows the file extension:
//   - .csv: one header line then one row per response
//   - .jsonl: one JSON object per response
//   - .db, .sqlite: a SQLite database with responses and sessions tables
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nvandessel/flipstudy/internal/spacing"
)

// ErrUnsupportedFormat is returned for export paths with an unknown extension.
var ErrUnsupportedFormat = errors.New("export: unsupported file format")

// Meta identifies the session an export belongs to.
type Meta struct {
	SessionID string
	CreatedAt time.Time
}

// Columns is the column order shared by every format.
var Columns = []string{"fact_id", "start_time", "reaction_time", "correct", "flipped", "alpha", "activation"}

// Write writes rows to path in the format selected by its extension,
// creating parent directories as needed.
func Write(path string, rows []spacing.ExportRow, meta Meta) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".jsonl", ".db", ".sqlite":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err := ensureDir(path); err != nil {
		return err
	}

	if ext == ".db" || ext == ".sqlite" {
		return WriteSQLite(path, rows, meta)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if ext == ".csv" {
		err = WriteCSV(f, rows)
	} else {
		err = WriteJSONL(f, rows)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// TestResultsPath derives the test-phase file from the export path:
// data.csv becomes data_test.csv. Test results are always CSV.
func TestResultsPath(exportPath string) string {
	ext := filepath.Ext(exportPath)
	return strings.TrimSuffix(exportPath, ext) + "_test.csv"
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	return nil
}
