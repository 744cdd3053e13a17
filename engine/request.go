// Package engine defines the boundary to the external forecasting
// engine: the wire request/response shapes, the request builder, and a
// transport client.
package engine

import (
	"errors"
	"fmt"

	"github.com/timeseer/forecastkit/series"
)

var ErrInvalidSeasonalPeriod = errors.New("seasonal period must be a positive integer")

// Manual ARIMA orders are clamped to the range the configuration
// surface offers.
const (
	MaxAROrder   = 5
	MaxMAOrder   = 5
	MaxDiffOrder = 2
)

// ModelType selects between engine-chosen and user-supplied orders.
type ModelType string

const (
	ModelAuto   ModelType = "auto"
	ModelManual ModelType = "manual"
)

// Order holds manual ARIMA (p, d, q) parameters.
type Order struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

// ModelConfig is the user-facing model configuration. Order is only
// consulted for manual models. Any positive seasonal period is
// accepted, not just the common {4, 7, 12, 52}.
type ModelConfig struct {
	Type           ModelType
	Order          Order
	Seasonal       bool
	SeasonalPeriod int
}

// NewAutoConfig returns the default engine-chosen model configuration.
func NewAutoConfig() ModelConfig {
	return ModelConfig{Type: ModelAuto}
}

// wirePoint mirrors one series observation on the wire.
type wirePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type wireOrder struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

type wireConfig struct {
	ModelType      string     `json:"modelType"`
	TrainSize      float64    `json:"trainSize"`
	Order          *wireOrder `json:"order,omitempty"`
	Seasonal       bool       `json:"seasonal"`
	SeasonalPeriod int        `json:"seasonalPeriod"`
}

// Request is the engine-facing forecast request.
type Request struct {
	Series        []wirePoint `json:"series"`
	ForecastSteps int         `json:"forecastSteps"`
	Config        wireConfig  `json:"config"`
}

// BuildRequest assembles the engine request from a projected series,
// its split plan, and the user's model configuration. Manual orders
// outside the offered range are clamped rather than rejected.
func BuildRequest(s series.Series, plan series.SplitPlan, trainFraction float64, cfg ModelConfig) (*Request, error) {
	if len(s) == 0 {
		return nil, series.ErrEmptySeries
	}
	if cfg.Seasonal && cfg.SeasonalPeriod <= 0 {
		return nil, fmt.Errorf("got %d: %w", cfg.SeasonalPeriod, ErrInvalidSeasonalPeriod)
	}

	points := make([]wirePoint, len(s))
	for i, p := range s {
		points[i] = wirePoint{Date: p.Date, Value: p.Value}
	}

	wc := wireConfig{
		ModelType:      string(ModelAuto),
		TrainSize:      trainFraction,
		Seasonal:       cfg.Seasonal,
		SeasonalPeriod: cfg.SeasonalPeriod,
	}
	if cfg.Type == ModelManual {
		wc.ModelType = string(ModelManual)
		wc.Order = &wireOrder{
			P: clamp(cfg.Order.P, MaxAROrder),
			D: clamp(cfg.Order.D, MaxDiffOrder),
			Q: clamp(cfg.Order.Q, MaxMAOrder),
		}
	}

	return &Request{
		Series:        points,
		ForecastSteps: plan.Horizon(),
		Config:        wc,
	}, nil
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
