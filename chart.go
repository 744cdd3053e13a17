package forecastkit

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/timeseer/forecastkit/reconcile"
)

// LineReconciled generates an echart line chart plotting the actual
// values alongside the attached forecasts of a reconciled series.
// Points missing one of the two fields leave a gap in that line.
func LineReconciled(title string, rec reconcile.Reconciled) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	dates := make([]string, 0, len(rec))
	actualData := make([]opts.LineData, 0, len(rec))
	forecastData := make([]opts.LineData, 0, len(rec))
	for _, p := range rec {
		dates = append(dates, p.Date)
		actualData = append(actualData, lineValue(p.Actual))
		forecastData = append(forecastData, lineValue(p.Forecast))
	}

	line.SetXAxis(dates).
		AddSeries("Actual", actualData).
		AddSeries("Forecast", forecastData)
	return line
}

func lineValue(v *float64) opts.LineData {
	if v == nil {
		return opts.LineData{Value: "-"}
	}
	return opts.LineData{Value: *v}
}

// RenderChart writes the reconciled series chart as a standalone html
// page.
func RenderChart(w io.Writer, title string, rec reconcile.Reconciled) error {
	page := components.NewPage()
	page.AddCharts(LineReconciled(title, rec))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("unable to render chart page: %w", err)
	}
	return nil
}

// WriteChartFile renders the chart to a file at path.
func WriteChartFile(path, title string, rec reconcile.Reconciled) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create chart file: %w", err)
	}
	defer file.Close()
	return RenderChart(file, title, rec)
}
