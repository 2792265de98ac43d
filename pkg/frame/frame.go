package frame

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Format is the closed set of file formats an upload can be decoded from.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyFile         = errors.New("no columns to parse from file")
)

// ParseFormat maps a declared file name to its Format.
func ParseFormat(filename string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(strings.TrimSpace(filename))), ".")
	switch Format(ext) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatExcel:
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

func (f Format) String() string {
	return string(f)
}

// Frame is an in-memory table: named columns over string cells.
// Every row has exactly len(Columns) cells.
type Frame struct {
	Name    string     `json:"name"`
	Format  Format     `json:"format"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) {
	if f == nil {
		return 0, 0
	}
	return len(f.Rows), len(f.Columns)
}

// Head returns at most n leading rows.
func (f *Frame) Head(n int) [][]string {
	if n > len(f.Rows) {
		n = len(f.Rows)
	}
	return f.Rows[:n]
}

// Column returns the cells of column i.
func (f *Frame) Column(i int) []string {
	out := make([]string, len(f.Rows))
	for r, row := range f.Rows {
		out[r] = row[i]
	}
	return out
}

// Kind is the inferred value type of a column.
type Kind string

const (
	KindNumber   Kind = "number"
	KindDatetime Kind = "datetime"
	KindText     Kind = "text"
	KindEmpty    Kind = "empty"
)

var nullValues = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "#N/A": {}, "NaN": {}, "nan": {},
	"-NaN": {}, "-nan": {}, "null": {}, "NULL": {}, "None": {}, "<NA>": {},
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
}

// IsNull reports whether a cell is one of the recognised missing-value markers.
func IsNull(cell string) bool {
	_, ok := nullValues[strings.TrimSpace(cell)]
	return ok
}

// ParseNumber parses a numeric cell. Infinities and NaN spellings that are
// not null markers count as text, since the explorer's JSON cannot carry them.
func ParseNumber(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ParseTime parses a datetime cell against the supported layouts.
func ParseTime(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ColumnKinds infers a Kind for each column from its non-null cells.
func (f *Frame) ColumnKinds() []Kind {
	kinds := make([]Kind, len(f.Columns))
	for i := range f.Columns {
		kinds[i] = inferKind(f.Column(i))
	}
	return kinds
}

func inferKind(cells []string) Kind {
	seen := 0
	numeric, temporal := true, true
	for _, c := range cells {
		if IsNull(c) {
			continue
		}
		seen++
		if numeric {
			if _, ok := ParseNumber(c); !ok {
				numeric = false
			}
		}
		if temporal {
			if _, ok := ParseTime(c); !ok {
				temporal = false
			}
		}
		if !numeric && !temporal {
			return KindText
		}
	}
	switch {
	case seen == 0:
		return KindEmpty
	case numeric:
		return KindNumber
	case temporal:
		return KindDatetime
	default:
		return KindText
	}
}

// newFrame normalises header names and pads rows to the header width.
func newFrame(name string, format Format, header []string, rows [][]string) *Frame {
	columns := normalizeHeader(header)
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		padded := make([]string, len(columns))
		copy(padded, row)
		out = append(out, padded)
	}
	return &Frame{
		Name:    name,
		Format:  format,
		Columns: columns,
		Rows:    out,
	}
}

// normalizeHeader names blank headers "Unnamed: <i>" and suffixes
// duplicates with ".1", ".2", ...
func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for {
			n, dup := seen[name]
			if !dup {
				break
			}
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", h, n+1)
		}
		seen[name] = 0
		columns[i] = name
	}
	return columns
}
