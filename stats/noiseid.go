package stats

import (
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"

	"github.com/sartorproj/stablab/internal/logging"
	"github.com/sartorproj/stablab/timeseries"
)

// DataType tells a NoiseIdentifier whether its input is phase or
// fractional frequency.
type DataType int

const (
	Phase DataType = iota
	Frequency
)

func (d DataType) String() string {
	if d == Frequency {
		return "frequency"
	}
	return "phase"
}

// Power-law noise exponents of the fractional-frequency spectrum S_y(f) ∝ f^α.
const (
	WhitePM      = 2
	FlickerPM    = 1
	WhiteFM      = 0
	FlickerFM    = -1
	RandomWalkFM = -2
)

// NoiseName returns the conventional abbreviation for α, or "unknown".
func NoiseName(alpha float64) string {
	switch alpha {
	case WhitePM:
		return "WPM"
	case FlickerPM:
		return "FPM"
	case WhiteFM:
		return "WFM"
	case FlickerFM:
		return "FFM"
	case RandomWalkFM:
		return "RWFM"
	}
	return "unknown"
}

// NoiseIdentifier estimates the dominant power-law exponent α for each
// averaging factor. Entries it cannot determine are NaN; it never fails.
type NoiseIdentifier interface {
	Identify(x []float64, factors []int, dt DataType) []float64
}

// Lag1Result holds the outcome of one lag-1 autocorrelation estimate.
type Lag1Result struct {
	Alpha    float64 // unrounded p + 2 (phase) or p (frequency)
	AlphaInt int     // rounded noise exponent
	D        int     // differences taken
	Rho      float64 // r1/(1+r1) at the stopping point
}

// Lag1Identifier implements the lag-1 autocorrelation method of Riley and
// Greenhall.
type Lag1Identifier struct {
	MinDiff int
	MaxDiff int
}

// NewLag1Identifier returns the identifier with dmin = 0 and dmax = 2.
func NewLag1Identifier() *Lag1Identifier {
	return &Lag1Identifier{MinDiff: 0, MaxDiff: 2}
}

// Identify implements NoiseIdentifier.
func (l *Lag1Identifier) Identify(x []float64, factors []int, dt DataType) []float64 {
	out := make([]float64, len(factors))
	prepared := Preprocess(x)
	for i, m := range factors {
		res, err := l.Estimate(prepared, m, dt)
		if err != nil {
			logging.Global().Debug("lag-1 noise identification failed", "m", m, "error", err)
			out[i] = math.NaN()
			continue
		}
		out[i] = float64(res.AlphaInt)
	}
	return out
}

// Estimate runs the lag-1 method for one averaging factor on already
// preprocessed data.
func (l *Lag1Identifier) Estimate(x []float64, m int, dt DataType) (Lag1Result, error) {
	if m < 1 {
		return Lag1Result{}, fmt.Errorf("stats: averaging factor %d", m)
	}

	var y []float64
	if dt == Phase {
		y = timeseries.DetrendQuadratic(timeseries.Decimate(x, m))
	} else {
		y = timeseries.DetrendLinear(timeseries.BlockAverage(x, m))
	}

	dmax := l.MaxDiff
	if dmax <= 0 {
		dmax = 2
	}
	rho, d, err := NDiffs(y, l.MinDiff, dmax)
	if err != nil {
		return Lag1Result{}, err
	}

	add := 0
	if dt == Phase {
		add = 2
	}
	p := -2 * (rho + float64(d))
	return Lag1Result{
		Alpha:    p + float64(add),
		AlphaInt: int(-math.Round(2*rho)) - 2*d + add,
		D:        d,
		Rho:      rho,
	}, nil
}

// outlierZ is the |z-score| above which samples are dropped before
// identification.
const outlierZ = 5.0

// Preprocess removes samples more than five standard deviations from the
// mean and then a linear trend. x is not modified.
func Preprocess(x []float64) []float64 {
	kept := x
	if len(x) > 2 {
		mean, err1 := mstats.Mean(x)
		sd, err2 := mstats.StandardDeviation(x)
		if err1 == nil && err2 == nil && sd > 0 {
			kept = make([]float64, 0, len(x))
			for _, v := range x {
				if math.Abs(v-mean)/sd <= outlierZ {
					kept = append(kept, v)
				}
			}
		}
	}
	return timeseries.DetrendLinear(kept)
}

// DefaultAutoThreshold is the N/m count above which AutoIdentifier trusts
// the lag-1 method.
const DefaultAutoThreshold = 30

// AutoIdentifier uses the lag-1 method when N/m ≥ Threshold and the B1
// ratio otherwise.
type AutoIdentifier struct {
	Threshold int
	Lag1      *Lag1Identifier
	B1        *B1Identifier
}

// NewAutoIdentifier returns an AutoIdentifier with default strategies.
func NewAutoIdentifier() *AutoIdentifier {
	return &AutoIdentifier{
		Threshold: DefaultAutoThreshold,
		Lag1:      NewLag1Identifier(),
		B1:        &B1Identifier{},
	}
}

// Identify implements NoiseIdentifier.
func (a *AutoIdentifier) Identify(x []float64, factors []int, dt DataType) []float64 {
	threshold := a.Threshold
	if threshold <= 0 {
		threshold = DefaultAutoThreshold
	}
	lag1 := a.Lag1
	if lag1 == nil {
		lag1 = NewLag1Identifier()
	}
	b1 := a.B1
	if b1 == nil {
		b1 = &B1Identifier{}
	}

	out := make([]float64, len(factors))
	prepared := Preprocess(x)
	for i, m := range factors {
		if m < 1 {
			out[i] = math.NaN()
			continue
		}
		if len(x)/m >= threshold {
			res, err := lag1.Estimate(prepared, m, dt)
			if err == nil {
				out[i] = float64(res.AlphaInt)
				continue
			}
			logging.Global().Debug("lag-1 noise identification failed", "m", m, "error", err)
			out[i] = math.NaN()
			continue
		}
		out[i] = b1.identifyOne(x, m, dt)
	}
	return out
}

// UnknownIdentifier reports every noise type as unknown. It skips all
// identification work, so confidence intervals use the Gaussian fallback.
type UnknownIdentifier struct{}

// Identify implements NoiseIdentifier.
func (UnknownIdentifier) Identify(_ []float64, factors []int, _ DataType) []float64 {
	out := make([]float64, len(factors))
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Default returns the identifier estimators use when none is configured.
func Default() NoiseIdentifier {
	return NewAutoIdentifier()
}
