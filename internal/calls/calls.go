// Package calls loads DeepSqueak call spreadsheets into typed call records
// while keeping every original column for pass-through.
package calls

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/tphakala/squeakmerge/internal/errors"
)

// Columns consumed by the merge. Everything else passes through untouched.
const (
	ColumnBegin    = "Begin Time (s)"
	ColumnEnd      = "End Time (s)"
	ColumnAccepted = "Accepted"
)

var (
	// ErrMissingColumn is returned when a sheet lacks a consumed column.
	ErrMissingColumn = errors.NewStd("required column missing")
	// ErrNoHeader is returned for a workbook whose first sheet is empty.
	ErrNoHeader = errors.NewStd("sheet has no header row")
)

// Call is one detected vocalization.
type Call struct {
	Begin    float64
	End      float64
	Accepted bool
	// Values holds the original cells, aligned with Sheet.Columns.
	Values []string
}

// Sheet is one loaded spreadsheet. The first column is the index column.
type Sheet struct {
	Path    string
	Columns []string
	Calls   []Call
}

// Len returns the number of calls.
func (s *Sheet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Calls)
}

// ColumnIndex returns the position of a column, or -1.
func (s *Sheet) ColumnIndex(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ParseRows builds a Sheet from a header row followed by data rows.
// Blank rows before the header and after the last data row are dropped.
// Blank rows between data rows are kept as calls with empty cells. Short
// rows are padded.
func ParseRows(path string, rows [][]string) (*Sheet, error) {
	header, data := splitHeader(rows)
	if header == nil {
		return nil, parseError(path, ErrNoHeader)
	}

	width := len(header)
	for _, row := range data {
		width = max(width, len(row))
	}
	columns := normalizeHeader(header, width)

	sheet := &Sheet{Path: path, Columns: columns, Calls: make([]Call, 0, len(data))}
	begin, end, accepted := sheet.ColumnIndex(ColumnBegin), sheet.ColumnIndex(ColumnEnd), sheet.ColumnIndex(ColumnAccepted)
	for _, req := range []struct {
		name string
		idx  int
	}{{ColumnBegin, begin}, {ColumnEnd, end}, {ColumnAccepted, accepted}} {
		if req.idx < 0 {
			return nil, parseError(path, fmt.Errorf("%w: %q", ErrMissingColumn, req.name))
		}
	}

	for n, row := range data {
		values := make([]string, width)
		copy(values, row)

		b, err := parseTime(values[begin])
		if err != nil {
			return nil, parseError(path, fmt.Errorf("row %d %s: %w", n+2, ColumnBegin, err))
		}
		e, err := parseTime(values[end])
		if err != nil {
			return nil, parseError(path, fmt.Errorf("row %d %s: %w", n+2, ColumnEnd, err))
		}

		ok := ParseAccepted(values[accepted])
		values[accepted] = FormatBool(ok)

		sheet.Calls = append(sheet.Calls, Call{Begin: b, End: e, Accepted: ok, Values: values})
	}
	return sheet, nil
}

// splitHeader returns the first non-blank row and every row after it up to
// the last non-blank one.
func splitHeader(rows [][]string) ([]string, [][]string) {
	start := slices.IndexFunc(rows, func(row []string) bool { return !isBlank(row) })
	if start < 0 {
		return nil, nil
	}
	last := len(rows) - 1
	for isBlank(rows[last]) {
		last--
	}
	return rows[start], rows[start+1 : last+1]
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// normalizeHeader names columns the way pandas does: the index column keeps
// its (possibly empty) name, other empty names become "Unnamed: N" and
// repeated names get ".1", ".2" suffixes.
func normalizeHeader(raw []string, width int) []string {
	columns := make([]string, width)
	seen := make(map[string]int, width)
	for i := range width {
		name := ""
		if i < len(raw) {
			name = strings.TrimSpace(raw[i])
		}
		if name == "" && i > 0 {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		columns[i] = name
	}
	return columns
}

// parseTime parses a time cell in seconds. Empty cells yield NaN, which
// compares false against every bound.
func parseTime(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

// ParseAccepted interprets an Accepted cell. Only true-like values count:
// TRUE/true/1 and numeric values equal to 1.
func ParseAccepted(cell string) bool {
	cell = strings.TrimSpace(cell)
	if b, err := strconv.ParseBool(cell); err == nil {
		return b
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f == 1
	}
	return false
}

// FormatBool renders a boolean the way the merged tables store flags.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func parseError(path string, err error) error {
	return errors.New(fmt.Errorf("%s: %w", path, err)).
		Component("calls").
		Category(errors.CategoryFileParsing).
		FileContext(path).
		Build()
}
