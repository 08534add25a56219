package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"
)

// Lag1 returns the lag-1 autocorrelation of x, or NaN when x is shorter
// than two samples or constant.
func Lag1(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	r1, err := mstats.AutoCorrelation(x, 1)
	if err != nil || math.IsInf(r1, 0) {
		return math.NaN()
	}
	return r1
}
