// Package stats computes descriptive statistics over a column for
// display scaling.
package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/timeseer/forecastkit/sanitize"
)

// Summary holds min/max/mean over the non-null values of one column.
// The zero value is the defined default for absent or all-null columns.
type Summary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Summarize collects the non-null numeric values of the chosen column
// across all rows. An absent column or one with zero numeric values
// yields {0,0,0} rather than an error since this only feeds chart
// scaling.
func Summarize(rows []sanitize.CleanRow, column string) Summary {
	vals := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v := row.Values[column]; v != nil {
			vals = append(vals, *v)
		}
	}
	if len(vals) == 0 {
		return Summary{}
	}
	return Summary{
		Min: floats.Min(vals),
		Max: floats.Max(vals),
		Avg: stat.Mean(vals, nil),
	}
}
