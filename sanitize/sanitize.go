// Package sanitize coerces raw row fields into canonical types: a
// normalized date key for the index column and finite numbers or nulls
// for value columns.
package sanitize

import (
	"strings"
	"time"

	"github.com/timeseer/forecastkit/schema"
	"github.com/timeseer/forecastkit/tabular"
)

// dateLayouts are tried in order when normalizing an index value.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01",
	"Jan 2006",
	"January 2006",
	"02-Jan-2006",
}

// CleanRow holds exactly the schema's columns. Index is the normalized
// ordering key. OpaqueIndex marks keys that did not parse as a date and
// fall back to plain string ordering. Values maps each value column to
// a finite number or nil for missing/unparseable cells.
type CleanRow struct {
	Index       string
	T           time.Time
	OpaqueIndex bool
	Values      map[string]*float64
}

// Result carries the surviving rows plus the count of rows dropped for
// having no usable index or no numeric cell at all.
type Result struct {
	Rows    []CleanRow
	Dropped int
}

// Clean normalizes every raw row against the schema. Rows with an
// absent or blank index cannot be placed in time and are dropped. Bad
// cells degrade to null rather than failing the row; a row survives
// with a non-null index and at least one non-null value.
func Clean(rows []tabular.RawRow, s *schema.Schema) *Result {
	res := &Result{
		Rows: make([]CleanRow, 0, len(rows)),
	}
	for _, raw := range rows {
		idx := strings.TrimSpace(raw[s.IndexColumn])
		if idx == "" {
			res.Dropped++
			continue
		}
		clean := CleanRow{
			Values: make(map[string]*float64, len(s.ValueColumns)),
		}
		clean.Index, clean.T, clean.OpaqueIndex = NormalizeDate(idx)

		var hasValue bool
		for _, col := range s.ValueColumns {
			v := schema.ParseNumber(raw[col])
			clean.Values[col] = v
			if v != nil {
				hasValue = true
			}
		}
		if !hasValue {
			res.Dropped++
			continue
		}
		res.Rows = append(res.Rows, clean)
	}
	return res
}

// NormalizeDate renders a raw index value as YYYY-MM-DD if any known
// layout parses it. Unparseable keys are kept verbatim as opaque
// string-ordered keys, a documented fallback rather than a failure.
func NormalizeDate(raw string) (key string, t time.Time, opaque bool) {
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed.Format("2006-01-02"), parsed, false
		}
	}
	return raw, time.Time{}, true
}
