package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timeseer/forecastkit/engine"
	"github.com/timeseer/forecastkit/series"
)

func f(v float64) *float64 {
	return &v
}

func threePointSeries() series.Series {
	return series.Series{
		{Date: "2020-01-01", T: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Value: 10},
		{Date: "2020-01-02", T: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), Value: 20},
		{Date: "2020-01-03", T: time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC), Value: 30},
	}
}

func TestMerge(t *testing.T) {
	testData := map[string]struct {
		trainCount int
		res        *engine.Result
		expected   Reconciled
	}{
		"nil result is a no-op": {
			trainCount: 2,
			expected: Reconciled{
				{Date: "2020-01-01", Actual: f(10)},
				{Date: "2020-01-02", Actual: f(20)},
				{Date: "2020-01-03", Actual: f(30)},
			},
		},
		"empty forecast is a no-op": {
			trainCount: 2,
			res:        &engine.Result{},
			expected: Reconciled{
				{Date: "2020-01-01", Actual: f(10)},
				{Date: "2020-01-02", Actual: f(20)},
				{Date: "2020-01-03", Actual: f(30)},
			},
		},
		"in range forecast augments without replacing": {
			trainCount: 2,
			res: &engine.Result{
				Forecast: []float64{28},
				Dates:    []string{"2020-01-03"},
			},
			expected: Reconciled{
				{Date: "2020-01-01", Actual: f(10)},
				{Date: "2020-01-02", Actual: f(20)},
				{Date: "2020-01-03", Actual: f(30), Forecast: f(28)},
			},
		},
		"beyond series appends forecast only points": {
			trainCount: 3,
			res: &engine.Result{
				Forecast: []float64{35, 40},
				Dates:    []string{"2020-01-04", "2020-01-05"},
			},
			expected: Reconciled{
				{Date: "2020-01-01", Actual: f(10)},
				{Date: "2020-01-02", Actual: f(20)},
				{Date: "2020-01-03", Actual: f(30)},
				{Date: "2020-01-04", Forecast: f(35)},
				{Date: "2020-01-05", Forecast: f(40)},
			},
		},
		"straddles the boundary": {
			trainCount: 2,
			res: &engine.Result{
				Forecast: []float64{28, 33},
				Dates:    []string{"2020-01-03", "2020-01-04"},
			},
			expected: Reconciled{
				{Date: "2020-01-01", Actual: f(10)},
				{Date: "2020-01-02", Actual: f(20)},
				{Date: "2020-01-03", Actual: f(30), Forecast: f(28)},
				{Date: "2020-01-04", Forecast: f(33)},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			got := Merge(threePointSeries(), td.trainCount, td.res, nil)
			assert.Equal(t, td.expected, got)
		})
	}
}

func TestMergeSynthesizesDatesWithStepper(t *testing.T) {
	s := threePointSeries()
	stepper, err := series.NewDateStepper(s, nil)
	require.NoError(t, err)

	got := Merge(s, 3, &engine.Result{Forecast: []float64{35, 40}}, stepper)
	require.Len(t, got, 5)
	assert.Equal(t, Point{Date: "2020-01-04", Forecast: f(35)}, got[3])
	assert.Equal(t, Point{Date: "2020-01-05", Forecast: f(40)}, got[4])
}

func TestMergeSyntheticLabelsWithoutStepper(t *testing.T) {
	got := Merge(threePointSeries(), 3, &engine.Result{Forecast: []float64{35, 40}}, nil)
	require.Len(t, got, 5)
	assert.Equal(t, "t+1", got[3].Date)
	assert.Equal(t, "t+2", got[4].Date)
}

func TestMergeExactCoverageAppendsNothing(t *testing.T) {
	got := Merge(threePointSeries(), 1, &engine.Result{
		Forecast: []float64{19, 31},
		Dates:    []string{"2020-01-02", "2020-01-03"},
	}, nil)

	require.Len(t, got, 3)
	assert.Equal(t, f(19), got[1].Forecast)
	assert.Equal(t, f(31), got[2].Forecast)
	assert.Equal(t, f(20), got[1].Actual)
	assert.Equal(t, f(30), got[2].Actual)
	assert.Nil(t, got[0].Forecast)
}
