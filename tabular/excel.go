package tabular

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseExcel reads the first sheet of an xlsx workbook into the same
// Table shape Parse produces. The first non-empty row is the header.
func ParseExcel(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyInput
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet %q: %w", sheets[0], err)
	}

	var header []string
	tbl := &Table{}
	for _, record := range records {
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
		// excelize trims trailing empty cells, pad back out
		if len(record) > len(header) {
			tbl.Skipped++
			continue
		}
		row := make(RawRow, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}

	if header == nil || len(tbl.Rows) == 0 {
		return nil, ErrEmptyInput
	}
	tbl.Header = header
	return tbl, nil
}
