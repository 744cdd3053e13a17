package forecastkit

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
)

// sampleRegions and their base price levels for generated test data.
var sampleRegions = []struct {
	name string
	base float64
}{
	{"New York, NY", 500000},
	{"Los Angeles, CA", 700000},
	{"Chicago, IL", 300000},
	{"Houston, TX", 250000},
	{"Austin, TX", 450000},
}

// WriteSampleCSV generates months of synthetic monthly housing-price
// data, one numeric column per region, with a linear trend, a yearly
// seasonal swing, and noise. Useful for trying the pipeline without a
// real dataset.
func WriteSampleCSV(w io.Writer, months int) error {
	if months <= 0 {
		months = 60
	}

	header := make([]string, 0, len(sampleRegions)+1)
	header = append(header, "date")
	for _, r := range sampleRegions {
		header = append(header, r.name)
	}
	if err := writeCSVLine(w, header); err != nil {
		return err
	}

	trend := make([]float64, months)
	floats.Span(trend, 0, 0.5)

	start := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < months; i++ {
		seasonality := 0.1 * math.Sin(2*math.Pi*float64(i)/12)
		record := make([]string, 0, len(header))
		record = append(record, start.AddDate(0, i, 0).Format("2006-01-02"))
		for _, r := range sampleRegions {
			noise := 0.05 * rand.NormFloat64()
			v := r.base * (1 + trend[i] + seasonality + noise)
			record = append(record, fmt.Sprintf("%.0f", v))
		}
		if err := writeCSVLine(w, record); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVLine(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		if strings.ContainsAny(f, ",\"\n") {
			quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		} else {
			quoted[i] = f
		}
	}
	if _, err := io.WriteString(w, strings.Join(quoted, ",")+"\n"); err != nil {
		return fmt.Errorf("unable to write sample data: %w", err)
	}
	return nil
}
