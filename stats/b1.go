package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"

	"github.com/sartorproj/stablab/internal/logging"
	"github.com/sartorproj/stablab/timeseries"
)

// B1Identifier classifies noise with Barnes' B1 bias function, the ratio of
// the classical variance to the Allan variance of m-point frequency
// averages. White and flicker PM share a B1 value, so they are separated
// with R(n) = Mod σ²_y / σ²_y.
type B1Identifier struct{}

// Identify implements NoiseIdentifier.
func (b *B1Identifier) Identify(x []float64, factors []int, dt DataType) []float64 {
	out := make([]float64, len(factors))
	for i, m := range factors {
		out[i] = b.identifyOne(x, m, dt)
	}
	return out
}

func (b *B1Identifier) identifyOne(x []float64, m int, dt DataType) float64 {
	if m < 1 {
		return math.NaN()
	}

	var freq, phase []float64
	if dt == Phase {
		phase = x
		freq = timeseries.Difference(x)
	} else {
		freq = x
		phase = timeseries.FromFrequency(x, 1).Values
	}

	avg := timeseries.BlockAverage(freq, m)
	if len(avg) < 3 {
		logging.Global().Debug("B1 noise identification needs three averages", "m", m, "averages", len(avg))
		return math.NaN()
	}

	classical, err := mstats.SampleVariance(avg)
	if err != nil {
		return math.NaN()
	}
	allan := twoSampleVariance(avg)
	if allan == 0 || math.IsNaN(allan) {
		return math.NaN()
	}

	mu := classifyB1(classical/allan, len(avg))
	if mu != -2 {
		return float64(-mu - 1)
	}

	rn := modAllanRatio(phase, m)
	if math.IsNaN(rn) {
		return math.NaN()
	}
	return float64(classifyRn(rn, m))
}

// b1Theory is the expected B1 for N averages when σ²_y(τ) ∝ τ^μ.
func b1Theory(n int, mu int) float64 {
	fn := float64(n)
	switch mu {
	case 2:
		return fn * (fn + 1) / 6
	case 1:
		return fn / 2
	case 0:
		return fn * math.Log(fn) / (2 * (fn - 1) * math.Ln2)
	case -1:
		return 1
	case -2:
		return (fn*fn - 1) / (1.5 * fn * (fn - 1))
	}
	fmu := float64(mu)
	return fn * (1 - math.Pow(fn, fmu)) / (2 * (fn - 1) * (1 - math.Pow(2, fmu)))
}

// classifyB1 returns the τ exponent μ ∈ {1, 0, -1, -2} whose theoretical
// B1 is nearest to b1, with decision boundaries at geometric means.
func classifyB1(b1 float64, n int) int {
	for _, mu := range []int{1, 0, -1} {
		boundary := math.Sqrt(b1Theory(n, mu) * b1Theory(n, mu-1))
		if b1 > boundary {
			return mu
		}
	}
	return -2
}

// rnTheory is the expected Mod σ²_y / σ²_y at averaging factor m for white
// PM (alpha 2) or flicker PM (alpha 1), with f_h = 1/(2τ₀).
func rnTheory(m int, alpha int) float64 {
	fm := float64(m)
	switch alpha {
	case WhitePM:
		return 1 / fm
	case FlickerPM:
		avar := (1.038 + 3*math.Log(math.Pi*fm)) / (4 * math.Pi * math.Pi)
		mvar := 3 * math.Log(256.0/27.0) / (8 * math.Pi * math.Pi)
		return mvar / avar
	}
	return 1
}

// classifyRn picks white or flicker PM, whichever theoretical R(n) is
// closer to rn on a log scale.
func classifyRn(rn float64, m int) int {
	boundary := math.Sqrt(rnTheory(m, WhitePM) * rnTheory(m, FlickerPM))
	if rn > boundary {
		return FlickerPM
	}
	return WhitePM
}

// twoSampleVariance is the non-overlapping Allan variance of adjacent
// averages.
func twoSampleVariance(avg []float64) float64 {
	if len(avg) < 2 {
		return math.NaN()
	}
	sum := 0.0
	for i := 0; i+1 < len(avg); i++ {
		d := avg[i+1] - avg[i]
		sum += d * d
	}
	return sum / (2 * float64(len(avg)-1))
}

// modAllanRatio returns Mod σ²_y(mτ₀) / σ²_y(mτ₀) computed from phase; τ₀
// cancels in the ratio.
func modAllanRatio(x []float64, m int) float64 {
	n := len(x)
	if n < 3*m {
		return math.NaN()
	}

	avar := 0.0
	for i := 0; i+2*m < n; i++ {
		d := x[i+2*m] - 2*x[i+m] + x[i]
		avar += d * d
	}
	avar /= float64(n - 2*m)

	s := timeseries.PrefixSum(x)
	mvar := 0.0
	count := n - 3*m + 1
	fm := float64(m)
	for i := 0; i < count; i++ {
		s1 := s[i+m] - s[i]
		s2 := s[i+2*m] - s[i+m]
		s3 := s[i+3*m] - s[i+2*m]
		v := (s3 - 2*s2 + s1) / fm
		mvar += v * v
	}
	mvar /= float64(count)

	if avar == 0 {
		return math.NaN()
	}
	// both carry the same 1/(2m²τ₀²) normalization
	return mvar / avar
}
