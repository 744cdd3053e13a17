// Package reconcile merges forecast output back onto the known series
// by date alignment, extending the series where forecasts run past the
// last known date.
package reconcile

import (
	"fmt"

	"github.com/timeseer/forecastkit/engine"
	"github.com/timeseer/forecastkit/series"
)

// Point carries an observation, a forecast, or both. Actual is nil for
// appended forecast-only points; Forecast is nil before the train
// boundary.
type Point struct {
	Date     string   `json:"date"`
	Actual   *float64 `json:"actual,omitempty"`
	Forecast *float64 `json:"forecast,omitempty"`
}

// Reconciled is the display-ready series: all original points in their
// chronological order, forecasts attached from the train boundary on,
// plus appended future points.
type Reconciled []Point

// Merge aligns forecast point i with series index trainCount+i.
// In-range forecasts augment the existing point without touching its
// actual value; out-of-range forecasts append new points dated by the
// engine's returned dates, or by stepper-synthesized labels when the
// engine returned none. An empty forecast is a valid no-op. The stepper
// may be nil if the engine always returns dates.
func Merge(s series.Series, trainCount int, res *engine.Result, stepper *series.DateStepper) Reconciled {
	out := make(Reconciled, 0, len(s))
	for _, p := range s {
		actual := p.Value
		out = append(out, Point{Date: p.Date, Actual: &actual})
	}
	if res == nil || len(res.Forecast) == 0 {
		return out
	}

	appended := 0
	for i, v := range res.Forecast {
		forecast := v
		targetIdx := trainCount + i
		if targetIdx < len(s) {
			out[targetIdx].Forecast = &forecast
			continue
		}
		appended++
		date := ""
		switch {
		case i < len(res.Dates) && res.Dates[i] != "":
			date = res.Dates[i]
		case stepper != nil:
			date = stepper.Next()
		default:
			// synthetic label when the engine returned no dates and
			// the series spacing cannot be inferred
			date = fmt.Sprintf("t+%d", appended)
		}
		out = append(out, Point{Date: date, Forecast: &forecast})
	}
	return out
}
