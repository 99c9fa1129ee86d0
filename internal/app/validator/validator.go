// Package validator checks engine output against a reference CSV of known
// values. The CSV needs a header row with a "text" column; every other
// column named after a method key (or method name) is compared, other
// columns are ignored. Empty cells are not checked.
package validator

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/heartmarshall/gematria/internal/gematria"
)

type calculator interface {
	CalculateAll(text string) (gematria.Result, error)
}

// Mismatch is a reference value that differs from the engine's value.
type Mismatch struct {
	Line     int
	Text     string
	Method   gematria.MethodID
	Expected int64
	Actual   int64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("line %d %q %s: expected %d, got %d", m.Line, m.Text, m.Method.Key(), m.Expected, m.Actual)
}

// RowError is a reference cell or row that could not be checked.
type RowError struct {
	Line    int
	Column  string
	Message string
}

func (e RowError) String() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("line %d column %s: %s", e.Line, e.Column, e.Message)
}

// Report summarizes one validation run.
type Report struct {
	Rows           int
	Checked        int
	Matched        int
	Methods        []gematria.MethodID
	IgnoredColumns []string
	Mismatches     []Mismatch
	Errors         []RowError
}

// OK reports whether every checked value matched and nothing failed.
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0 && len(r.Errors) == 0
}

// ErrNoTextColumn is returned when the reference header has no text column.
var ErrNoTextColumn = errors.New("reference csv: missing text column")

// Validator compares reference values with the engine.
type Validator struct {
	log  *slog.Logger
	calc calculator
}

// New creates a Validator.
func New(log *slog.Logger, calc calculator) *Validator {
	return &Validator{log: log.With("component", "validator"), calc: calc}
}

// ValidateFile runs Validate over the CSV file at path.
func (v *Validator) ValidateFile(ctx context.Context, path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference: %w", err)
	}
	defer f.Close()

	return v.Validate(ctx, f)
}

type column struct {
	index  int
	name   string
	method gematria.MethodID
}

// Validate reads reference rows from r and compares every non-empty method
// cell with the engine's value for the row's text.
func (v *Validator) Validate(ctx context.Context, r io.Reader) (*Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.Comment = '#'

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoTextColumn
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	report := &Report{}
	textCol, cols := parseHeader(header, report)
	if textCol < 0 {
		return nil, ErrNoTextColumn
	}

	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("read row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		report.Rows++

		if textCol >= len(record) {
			report.Errors = append(report.Errors, RowError{Line: line, Column: "text", Message: "missing"})
			continue
		}
		text := record[textCol]

		res, err := v.calc.CalculateAll(text)
		if err != nil {
			report.Errors = append(report.Errors, RowError{Line: line, Column: "text", Message: err.Error()})
			continue
		}

		for _, c := range cols {
			if c.index >= len(record) {
				continue
			}
			cell := strings.TrimSpace(record[c.index])
			if cell == "" {
				continue
			}
			expected, err := strconv.ParseInt(cell, 10, 64)
			if err != nil {
				report.Errors = append(report.Errors, RowError{Line: line, Column: c.name, Message: fmt.Sprintf("not an integer: %q", cell)})
				continue
			}

			report.Checked++
			actual := res.Value(c.method)
			if actual == expected {
				report.Matched++
				continue
			}
			report.Mismatches = append(report.Mismatches, Mismatch{
				Line:     line,
				Text:     text,
				Method:   c.method,
				Expected: expected,
				Actual:   actual,
			})
		}
	}

	v.log.Info("reference validated",
		slog.Int("rows", report.Rows),
		slog.Int("checked", report.Checked),
		slog.Int("matched", report.Matched),
		slog.Int("mismatches", len(report.Mismatches)),
		slog.Int("errors", len(report.Errors)),
	)

	return report, nil
}

func parseHeader(header []string, report *Report) (int, []column) {
	textCol := -1
	var cols []column
	seen := make(map[gematria.MethodID]bool)

	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if strings.EqualFold(name, "text") {
			if textCol < 0 {
				textCol = i
			}
			continue
		}
		id, err := gematria.ParseMethodID(name)
		if err != nil || seen[id] {
			report.IgnoredColumns = append(report.IgnoredColumns, name)
			continue
		}
		seen[id] = true
		cols = append(cols, column{index: i, name: name, method: id})
		report.Methods = append(report.Methods, id)
	}

	return textCol, cols
}
