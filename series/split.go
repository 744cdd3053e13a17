package series

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidFraction = errors.New("train fraction must be in (0, 1)")

// FallbackHorizon is used when the train fraction consumes the whole
// series, so a forecast can still be requested with no test window.
const FallbackHorizon = 6

// SplitPlan partitions a series chronologically into a leading training
// portion and a trailing testing portion.
type SplitPlan struct {
	TrainCount int `json:"train_count"`
	TestCount  int `json:"test_count"`
}

// PlanSplit computes the boundary for a series of n points given a
// train fraction. TrainCount + TestCount always equals n.
func PlanSplit(n int, trainFraction float64) (SplitPlan, error) {
	if n <= 0 {
		return SplitPlan{}, ErrEmptySeries
	}
	if trainFraction <= 0 || trainFraction >= 1 {
		return SplitPlan{}, fmt.Errorf("got %f: %w", trainFraction, ErrInvalidFraction)
	}
	trainCount := int(math.Floor(float64(n) * trainFraction))
	return SplitPlan{
		TrainCount: trainCount,
		TestCount:  n - trainCount,
	}, nil
}

// Horizon is the number of future periods to request: the test window
// length, or FallbackHorizon when the split left no test points.
func (p SplitPlan) Horizon() int {
	if p.TestCount > 0 {
		return p.TestCount
	}
	return FallbackHorizon
}
