package forecastkit

import (
	"time"

	"github.com/rickar/cal/v2"
)

const (
	DefaultTrainFraction = 0.8
	DefaultEngineTimeout = time.Minute
)

// Options configure an Analyzer. The zero-value fields fall back to the
// defaults NewDefaultOptions sets.
type Options struct {
	// TrainFraction of the series used for training; the remainder is
	// the test window the engine is scored against.
	TrainFraction float64

	// EngineTimeout bounds a single engine call. A timed-out run is a
	// fatal failure for that request and is not retried.
	EngineTimeout time.Duration

	// Calendar, when set, makes synthesized forecast dates skip
	// non-workdays. Useful for daily trading-style data.
	Calendar *cal.BusinessCalendar

	// Observer receives pipeline progress and warning events.
	Observer Observer
}

func NewDefaultOptions() *Options {
	return &Options{
		TrainFraction: DefaultTrainFraction,
		EngineTimeout: DefaultEngineTimeout,
	}
}
