// Package vocab reads word lists into facts.
//
// A list is a .csv file or the first sheet of an .xlsx workbook. Each row is
// either (question, answer) or (id, question, answer); two-column rows take
// their 1-based row number as ID. Blank rows are skipped.
package vocab

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nvandessel/flipstudy/internal/models"
	"github.com/nvandessel/flipstudy/internal/sanitize"
)

var (
	ErrDuplicateID       = errors.New("vocab: duplicate fact ID")
	ErrMalformedRow      = errors.New("vocab: malformed row")
	ErrUnsupportedFormat = errors.New("vocab: unsupported file format")
	ErrEmpty             = errors.New("vocab: no facts found")
)

// Load reads the word list at path. A positive limit keeps only the first
// limit facts.
func Load(path string, limit int) ([]models.Fact, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening word list: %w", err)
		}
		defer f.Close()
		return ReadCSV(f, limit)
	case ".xlsx":
		return loadXLSX(path, limit)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ReadCSV parses CSV rows from r.
func ReadCSV(r io.Reader, limit int) ([]models.Fact, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return build(rows, limit)
}

func loadXLSX(path string, limit int) ([]models.Fact, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", ErrEmpty, path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return build(rows, limit)
}

// build turns raw rows into facts, stopping once limit facts are collected.
func build(rows [][]string, limit int) ([]models.Fact, error) {
	var facts []models.Fact
	seen := make(map[string]int)

	for i, row := range rows {
		if limit > 0 && len(facts) >= limit {
			break
		}
		rowNum := i + 1

		cells := make([]string, 0, len(row))
		for _, c := range row {
			cells = append(cells, sanitize.FactText(c))
		}
		cells = trimTrailingEmpty(cells)
		if len(cells) == 0 {
			continue
		}

		var id, question, answer string
		switch len(cells) {
		case 2:
			id, question, answer = strconv.Itoa(rowNum), cells[0], cells[1]
		case 3:
			id, question, answer = cells[0], cells[1], cells[2]
		default:
			return nil, fmt.Errorf("%w: row %d has %d columns, want 2 or 3", ErrMalformedRow, rowNum, len(cells))
		}
		if id == "" || question == "" || answer == "" {
			return nil, fmt.Errorf("%w: row %d has an empty field", ErrMalformedRow, rowNum)
		}
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %q on rows %d and %d", ErrDuplicateID, id, prev, rowNum)
		}
		seen[id] = rowNum

		facts = append(facts, models.NewFact(id, question, answer))
	}

	if len(facts) == 0 {
		return nil, ErrEmpty
	}
	return facts, nil
}

func trimTrailingEmpty(cells []string) []string {
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}
