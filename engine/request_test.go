package engine

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timeseer/forecastkit/series"
)

func testSeries(n int) series.Series {
	s := make(series.Series, 0, n)
	dates := []string{
		"2020-01-01", "2020-01-02", "2020-01-03", "2020-01-04", "2020-01-05",
		"2020-01-06", "2020-01-07", "2020-01-08", "2020-01-09", "2020-01-10",
	}
	for i := 0; i < n; i++ {
		s = append(s, series.Point{Date: dates[i], Value: float64(i + 1)})
	}
	return s
}

func TestBuildRequest(t *testing.T) {
	s := testSeries(10)
	plan := series.SplitPlan{TrainCount: 8, TestCount: 2}

	testData := map[string]struct {
		series   series.Series
		cfg      ModelConfig
		expected wireConfig
		steps    int
		err      error
	}{
		"empty series": {
			cfg: NewAutoConfig(),
			err: series.ErrEmptySeries,
		},
		"auto": {
			series: s,
			cfg:    NewAutoConfig(),
			expected: wireConfig{
				ModelType: "auto",
				TrainSize: 0.8,
			},
			steps: 2,
		},
		"manual passes order": {
			series: s,
			cfg: ModelConfig{
				Type:  ModelManual,
				Order: Order{P: 2, D: 1, Q: 1},
			},
			expected: wireConfig{
				ModelType: "manual",
				TrainSize: 0.8,
				Order:     &wireOrder{P: 2, D: 1, Q: 1},
			},
			steps: 2,
		},
		"manual clamps out of range orders": {
			series: s,
			cfg: ModelConfig{
				Type:  ModelManual,
				Order: Order{P: 9, D: -1, Q: 6},
			},
			expected: wireConfig{
				ModelType: "manual",
				TrainSize: 0.8,
				Order:     &wireOrder{P: 5, D: 0, Q: 5},
			},
			steps: 2,
		},
		"seasonal with arbitrary period": {
			series: s,
			cfg: ModelConfig{
				Type:           ModelAuto,
				Seasonal:       true,
				SeasonalPeriod: 13,
			},
			expected: wireConfig{
				ModelType:      "auto",
				TrainSize:      0.8,
				Seasonal:       true,
				SeasonalPeriod: 13,
			},
			steps: 2,
		},
		"seasonal requires positive period": {
			series: s,
			cfg: ModelConfig{
				Type:     ModelAuto,
				Seasonal: true,
			},
			err: ErrInvalidSeasonalPeriod,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			req, err := BuildRequest(td.series, plan, 0.8, td.cfg)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, req.Config)
			assert.Equal(t, td.steps, req.ForecastSteps)
			require.Len(t, req.Series, len(td.series))
			assert.Equal(t, "2020-01-01", req.Series[0].Date)
			assert.Equal(t, 1.0, req.Series[0].Value)
		})
	}
}

func TestRequestWireFormat(t *testing.T) {
	req, err := BuildRequest(testSeries(2), series.SplitPlan{TrainCount: 1, TestCount: 1}, 0.8, ModelConfig{
		Type:           ModelManual,
		Order:          Order{P: 1, D: 1, Q: 0},
		Seasonal:       true,
		SeasonalPeriod: 12,
	})
	require.NoError(t, err)

	payload, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"series": [
			{"date": "2020-01-01", "value": 1},
			{"date": "2020-01-02", "value": 2}
		],
		"forecastSteps": 1,
		"config": {
			"modelType": "manual",
			"trainSize": 0.8,
			"order": {"p": 1, "d": 1, "q": 0},
			"seasonal": true,
			"seasonalPeriod": 12
		}
	}`, string(payload))
}

func TestBuildRequestFallbackHorizon(t *testing.T) {
	s := testSeries(10)
	plan := series.SplitPlan{TrainCount: 10, TestCount: 0}

	req, err := BuildRequest(s, plan, 0.8, NewAutoConfig())
	require.NoError(t, err)
	assert.Equal(t, series.FallbackHorizon, req.ForecastSteps)
}
