package sanitize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timeseer/forecastkit/schema"
	"github.com/timeseer/forecastkit/tabular"
)

func f(v float64) *float64 {
	return &v
}

func TestClean(t *testing.T) {
	s := &schema.Schema{
		IndexColumn:  "date",
		ValueColumns: []string{"price", "volume"},
	}

	testData := map[string]struct {
		rows     []tabular.RawRow
		expected *Result
	}{
		"empty": {
			expected: &Result{Rows: []CleanRow{}},
		},
		"valid row": {
			rows: []tabular.RawRow{
				{"date": "2020-01-01", "price": "10.5", "volume": "3"},
			},
			expected: &Result{
				Rows: []CleanRow{
					{
						Index:  "2020-01-01",
						T:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
						Values: map[string]*float64{"price": f(10.5), "volume": f(3)},
					},
				},
			},
		},
		"blank index dropped": {
			rows: []tabular.RawRow{
				{"date": "  ", "price": "10"},
				{"price": "11"},
			},
			expected: &Result{Rows: []CleanRow{}, Dropped: 2},
		},
		"bad cell degrades to null": {
			rows: []tabular.RawRow{
				{"date": "2020-01-01", "price": "oops", "volume": "3"},
			},
			expected: &Result{
				Rows: []CleanRow{
					{
						Index:  "2020-01-01",
						T:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
						Values: map[string]*float64{"price": nil, "volume": f(3)},
					},
				},
			},
		},
		"all null values dropped": {
			rows: []tabular.RawRow{
				{"date": "2020-01-01", "price": "oops", "volume": ""},
			},
			expected: &Result{Rows: []CleanRow{}, Dropped: 1},
		},
		"opaque index kept": {
			rows: []tabular.RawRow{
				{"date": "2020Q1", "price": "10", "volume": "1"},
			},
			expected: &Result{
				Rows: []CleanRow{
					{
						Index:       "2020Q1",
						OpaqueIndex: true,
						Values:      map[string]*float64{"price": f(10), "volume": f(1)},
					},
				},
			},
		},
		"slash date normalized": {
			rows: []tabular.RawRow{
				{"date": "2020/01/05", "price": "10", "volume": "1"},
			},
			expected: &Result{
				Rows: []CleanRow{
					{
						Index:  "2020-01-05",
						T:      time.Date(2020, 1, 5, 0, 0, 0, 0, time.UTC),
						Values: map[string]*float64{"price": f(10), "volume": f(1)},
					},
				},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			got := Clean(td.rows, s)
			assert.Equal(t, td.expected, got)
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	testData := map[string]struct {
		input  string
		key    string
		opaque bool
	}{
		"iso":         {input: "2020-01-02", key: "2020-01-02"},
		"us slash":    {input: "01/02/2020", key: "2020-01-02"},
		"year month":  {input: "2020-03", key: "2020-03-01"},
		"month name":  {input: "Mar 2020", key: "2020-03-01"},
		"datetime":    {input: "2020-01-02 13:00:00", key: "2020-01-02"},
		"opaque":      {input: "week-7", key: "week-7", opaque: true},
		"plain digit": {input: "42", key: "42", opaque: true},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			key, _, opaque := NormalizeDate(td.input)
			require.Equal(t, td.opaque, opaque)
			assert.Equal(t, td.key, key)
		})
	}
}
