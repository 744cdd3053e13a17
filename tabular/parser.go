// Package tabular turns raw delimited uploads into ordered row records
// with a header-derived column layout.
package tabular

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

var ErrEmptyInput = errors.New("no parseable rows in input")

// RawRow maps a column name to its unparsed field value. A missing key
// means the field was absent from that line.
type RawRow map[string]string

// Table is the ordered result of parsing one upload. Rows preserve
// file order. Skipped counts data lines dropped because their field
// count did not match the header.
type Table struct {
	Header  []string
	Rows    []RawRow
	Skipped int
}

// Options control delimiter, comment and quote conventions.
type Options struct {
	Delimiter rune
	Comment   rune
}

func NewDefaultOptions() *Options {
	return &Options{
		Delimiter: ',',
	}
}

// Parse reads delimited text. The first non-comment, non-empty line is
// the header; each later non-empty line becomes one RawRow. Lines whose
// field count differs from the header are dropped and counted, not
// treated as errors.
func Parse(r io.Reader, opt *Options) (*Table, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}

	cr := csv.NewReader(r)
	cr.Comma = opt.Delimiter
	cr.Comment = opt.Comment
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var header []string
	tbl := &Table{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// unsalvageable line, e.g. malformed quoting
			tbl.Skipped++
			continue
		}
		if blankRecord(record) {
			continue
		}
		if header == nil {
			header = make([]string, len(record))
			for i, h := range record {
				header[i] = strings.TrimSpace(h)
			}
			continue
		}
		if len(record) != len(header) {
			tbl.Skipped++
			continue
		}
		row := make(RawRow, len(header))
		for i, name := range header {
			row[name] = strings.TrimSpace(record[i])
		}
		tbl.Rows = append(tbl.Rows, row)
	}

	if header == nil || len(tbl.Rows) == 0 {
		return nil, ErrEmptyInput
	}
	tbl.Header = header
	return tbl, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string, opt *Options) (*Table, error) {
	return Parse(strings.NewReader(s), opt)
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
