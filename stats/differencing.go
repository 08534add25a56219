package stats

import (
	"fmt"
	"math"

	"github.com/sartorproj/stablab/timeseries"
)

// whiteRho is the lag-1 threshold below which a differenced series is
// considered stationary enough to stop.
const whiteRho = 0.25

// minDiffLen is the shortest series the differencing loop will accept.
const minDiffLen = 5

// NDiffs differences x until the lag-1 statistic rho = r1/(1+r1) falls
// below 0.25, taking at least dmin and at most dmax differences.
// It returns rho at the stopping point and the number of differences d.
func NDiffs(x []float64, dmin, dmax int) (rho float64, d int, err error) {
	if dmax < dmin {
		dmax = dmin
	}

	current := x
	for {
		if len(current) < minDiffLen {
			return math.NaN(), d, fmt.Errorf("stats: %d points left after %d differences", len(current), d)
		}

		r1 := Lag1(current)
		if math.IsNaN(r1) || math.IsInf(r1, 0) {
			return math.NaN(), d, fmt.Errorf("stats: lag-1 autocorrelation undefined after %d differences", d)
		}
		rho = r1 / (1 + r1)
		if math.IsInf(rho, 0) {
			return math.NaN(), d, fmt.Errorf("stats: lag-1 autocorrelation is -1 after %d differences", d)
		}

		if d >= dmin && (rho < whiteRho || d >= dmax) {
			return rho, d, nil
		}

		current = timeseries.Difference(current)
		d++
	}
}
