// Package series projects sanitized rows into a single chronologically
// ordered {date, value} series and plans its train/test split.
package series

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/timeseer/forecastkit/sanitize"
	"github.com/timeseer/forecastkit/schema"
)

var (
	ErrUnknownColumn = errors.New("column not in inferred schema")
	ErrEmptySeries   = errors.New("projected series has no points")
)

// Point is one observation. Date is the canonical ordering key; T is
// the parsed calendar date and stays zero for opaque keys.
type Point struct {
	Date  string    `json:"date"`
	T     time.Time `json:"-"`
	Value float64   `json:"value"`
}

// Series is ordered non-decreasing by date key. Repeated dates are
// allowed and never deduplicated.
type Series []Point

// Project extracts the series for one chosen value column: non-null
// cells only, stably sorted ascending by date key so ties keep their
// original row order.
func Project(rows []sanitize.CleanRow, s *schema.Schema, column string) (Series, error) {
	if !s.HasValueColumn(column) {
		return nil, fmt.Errorf("%q: %w", column, ErrUnknownColumn)
	}

	out := make(Series, 0, len(rows))
	for _, row := range rows {
		v := row.Values[column]
		if v == nil {
			continue
		}
		out = append(out, Point{
			Date:  row.Index,
			T:     row.T,
			Value: *v,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("column %q: %w", column, ErrEmptySeries)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out, nil
}

// Last returns the final point of the series.
func (s Series) Last() Point {
	return s[len(s)-1]
}

// Values returns the observation values in series order.
func (s Series) Values() []float64 {
	vals := make([]float64, len(s))
	for i, p := range s {
		vals[i] = p.Value
	}
	return vals
}
