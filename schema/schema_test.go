package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timeseer/forecastkit/tabular"
)

func TestInfer(t *testing.T) {
	testData := map[string]struct {
		header   []string
		rows     []tabular.RawRow
		expected *Schema
		err      error
	}{
		"no header": {
			err: ErrNoHeader,
		},
		"exact date match wins": {
			header: []string{"price", "Date", "volume"},
			rows: []tabular.RawRow{
				{"price": "10", "Date": "2020-01-01", "volume": "3"},
			},
			expected: &Schema{
				IndexColumn:  "Date",
				ValueColumns: []string{"price", "volume"},
			},
		},
		"containing time matches": {
			header: []string{"price", "timestamp"},
			rows: []tabular.RawRow{
				{"price": "10", "timestamp": "2020-01-01"},
			},
			expected: &Schema{
				IndexColumn:  "timestamp",
				ValueColumns: []string{"price"},
			},
		},
		"first column fallback excludes non numeric": {
			header: []string{"period", "price", "notes"},
			rows: []tabular.RawRow{
				{"period": "2020Q1", "price": "10.5", "notes": "launch"},
				{"period": "2020Q2", "price": "11.2", "notes": "steady"},
			},
			expected: &Schema{
				IndexColumn:  "period",
				ValueColumns: []string{"price"},
			},
		},
		"numeric only in later rows": {
			header: []string{"date", "price"},
			rows: []tabular.RawRow{
				{"date": "2020-01-01", "price": "n/a"},
				{"date": "2020-01-02", "price": "12"},
			},
			expected: &Schema{
				IndexColumn:  "date",
				ValueColumns: []string{"price"},
			},
		},
		"no numeric columns": {
			header: []string{"date", "notes"},
			rows: []tabular.RawRow{
				{"date": "2020-01-01", "notes": "hello"},
			},
			err: ErrNoValueColumns,
		},
		"duplicate header rejected": {
			header: []string{"date", "price", "price"},
			rows: []tabular.RawRow{
				{"date": "2020-01-01", "price": "10"},
			},
			err: ErrDuplicateHeader,
		},
		"iso date header pattern": {
			header: []string{"region_id", "2020-01-01"},
			rows: []tabular.RawRow{
				{"region_id": "7", "2020-01-01": "10"},
			},
			expected: &Schema{
				IndexColumn:  "2020-01-01",
				ValueColumns: []string{"region_id"},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			s, err := Infer(td.header, td.rows)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, s)
		})
	}
}

func TestParseNumber(t *testing.T) {
	testData := map[string]struct {
		input    string
		expected *float64
	}{
		"blank":               {input: "   "},
		"plain":               {input: "10.5", expected: f(10.5)},
		"negative":            {input: "-3", expected: f(-3)},
		"thousands separator": {input: "1,234.5", expected: f(1234.5)},
		"scientific":          {input: "1e3", expected: f(1000)},
		"word":                {input: "hello"},
		"nan":                 {input: "NaN"},
		"inf":                 {input: "+Inf"},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			got := ParseNumber(td.input)
			if td.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *td.expected, *got)
		})
	}
}

func f(v float64) *float64 {
	return &v
}

func TestHasValueColumn(t *testing.T) {
	s := &Schema{IndexColumn: "date", ValueColumns: []string{"price"}}
	assert.True(t, s.HasValueColumn("price"))
	assert.False(t, s.HasValueColumn("date"))
	assert.False(t, s.HasValueColumn("volume"))
}
