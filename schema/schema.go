// Package schema infers which column of an upload orders the series in
// time and which columns hold forecastable numeric values.
package schema

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/timeseer/forecastkit/tabular"
)

var (
	ErrNoValueColumns  = errors.New("no numeric columns detected")
	ErrDuplicateHeader = errors.New("duplicate header name")
	ErrNoHeader        = errors.New("no header columns")
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Schema identifies the index column and the ordered set of numeric
// value columns of an upload.
type Schema struct {
	IndexColumn  string   `json:"index_column"`
	ValueColumns []string `json:"value_columns"`
}

// HasValueColumn reports whether name is one of the inferred numeric
// columns.
func (s *Schema) HasValueColumn(name string) bool {
	for _, c := range s.ValueColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Infer selects the index column by heuristic priority and keeps every
// other column that holds at least one finite number across all rows.
// Duplicate header names are rejected rather than silently shadowed.
func Infer(header []string, rows []tabular.RawRow) (*Schema, error) {
	if len(header) == 0 {
		return nil, ErrNoHeader
	}
	seen := make(map[string]struct{}, len(header))
	for _, h := range header {
		if _, ok := seen[h]; ok {
			return nil, fmt.Errorf("column %q appears more than once: %w", h, ErrDuplicateHeader)
		}
		seen[h] = struct{}{}
	}

	indexCol := pickIndexColumn(header)

	valueCols := make([]string, 0, len(header)-1)
	for _, h := range header {
		if h == indexCol {
			continue
		}
		if columnHasNumber(rows, h) {
			valueCols = append(valueCols, h)
		}
	}
	if len(valueCols) == 0 {
		return nil, ErrNoValueColumns
	}

	return &Schema{
		IndexColumn:  indexCol,
		ValueColumns: valueCols,
	}, nil
}

func pickIndexColumn(header []string) string {
	for _, h := range header {
		if strings.EqualFold(h, "date") {
			return h
		}
	}
	for _, h := range header {
		lower := strings.ToLower(h)
		if strings.Contains(lower, "date") || strings.Contains(lower, "time") || isoDatePattern.MatchString(h) {
			return h
		}
	}
	return header[0]
}

// columnHasNumber scans every row since a column may be numeric only in
// later rows.
func columnHasNumber(rows []tabular.RawRow, col string) bool {
	for _, row := range rows {
		if ParseNumber(row[col]) != nil {
			return true
		}
	}
	return false
}

// ParseNumber attempts a locale-invariant decimal parse, tolerating
// thousands separators. Returns nil when the cell holds no finite
// number.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
