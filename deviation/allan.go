package deviation

import (
	"math"

	"github.com/sartorproj/stablab/timeseries"
)

// ADEV computes the overlapping Allan deviation,
// σ²(τ) = ⟨(x[i+2m] - 2x[i+m] + x[i])²⟩ / 2τ², over all N-2m offsets.
func ADEV(s *timeseries.Series, opts *Options) (*Result, error) {
	return run(estimator{kind: KindADEV, point: adevPoint}, s, opts)
}

func adevPoint(x []float64, tau0 float64, m int) (float64, int, bool) {
	l := len(x) - 2*m
	if m < 1 || l < 1 {
		return 0, 0, false
	}
	sum := 0.0
	for i := 0; i < l; i++ {
		d := x[i+2*m] - 2*x[i+m] + x[i]
		sum += d * d
	}
	tau := float64(m) * tau0
	return math.Sqrt(sum / (2 * tau * tau * float64(l))), l, true
}

// MDEV computes the modified Allan deviation from m-point phase averages
// formed with prefix sums.
func MDEV(s *timeseries.Series, opts *Options) (*Result, error) {
	return run(estimator{kind: KindMDEV, point: mdevPoint}, s, opts)
}

func mdevPoint(x []float64, tau0 float64, m int) (float64, int, bool) {
	neff := len(x) - 3*m + 1
	if m < 1 || neff < 1 {
		return 0, 0, false
	}
	s := timeseries.PrefixSum(x)
	fm := float64(m)
	sum := 0.0
	for i := 0; i < neff; i++ {
		s1 := s[i+m] - s[i]
		s2 := s[i+2*m] - s[i+m]
		s3 := s[i+3*m] - s[i+2*m]
		d := (s3 - 2*s2 + s1) / fm
		sum += d * d
	}
	return math.Sqrt(sum / (2 * fm * fm * tau0 * tau0 * float64(neff))), neff, true
}

// HDEV computes the overlapping Hadamard deviation from third differences
// of phase.
func HDEV(s *timeseries.Series, opts *Options) (*Result, error) {
	return run(estimator{kind: KindHDEV, point: hdevPoint}, s, opts)
}

func hdevPoint(x []float64, tau0 float64, m int) (float64, int, bool) {
	l := len(x) - 3*m
	if m < 1 || l < 1 {
		return 0, 0, false
	}
	sum := 0.0
	for i := 0; i < l; i++ {
		d := x[i+3*m] - 3*x[i+2*m] + 3*x[i+m] - x[i]
		sum += d * d
	}
	tau := float64(m) * tau0
	return math.Sqrt(sum / (6 * tau * tau * float64(l))), l, true
}

// MHDEV computes the modified Hadamard deviation: third differences of
// phase summed over a sliding m-point window.
func MHDEV(s *timeseries.Series, opts *Options) (*Result, error) {
	return run(estimator{kind: KindMHDEV, point: mhdevPoint}, s, opts)
}

func mhdevPoint(x []float64, tau0 float64, m int) (float64, int, bool) {
	n := len(x)
	neff := n - 4*m + 1
	if m < 1 || neff < 1 {
		return 0, 0, false
	}
	d4 := make([]float64, n-3*m)
	for i := range d4 {
		d4[i] = x[i] - 3*x[i+m] + 3*x[i+2*m] - x[i+3*m]
	}
	mvar := movingSumVariance(d4, m, neff)
	tau := float64(m) * tau0
	return sqrtVar(mvar) / tau, neff, true
}

// movingSumVariance returns ⟨S²⟩/(6m²) over the first count m-point moving
// sums S of d.
func movingSumVariance(d []float64, m, count int) float64 {
	c := timeseries.PrefixSum(d)
	sum := 0.0
	for i := 0; i < count; i++ {
		avg := c[i+m] - c[i]
		sum += avg * avg
	}
	fm := float64(m)
	return sum / float64(count) / (6 * fm * fm)
}

var (
	tdevScale = 1 / math.Sqrt(3)
	ldevScale = 1 / math.Sqrt(10.0/3.0)
)

// TDEV computes the time deviation τ·MDEV/√3, with the interval scaled by
// the same factor.
func TDEV(s *timeseries.Series, opts *Options) (*Result, error) {
	r, err := MDEV(s, opts)
	if err != nil {
		return nil, err
	}
	r.Kind = KindTDEV
	r.scale(func(tau float64) float64 { return tau * tdevScale })
	return r, nil
}

// LDEV computes the Lapinski deviation τ·MHDEV/√(10/3), with the interval
// scaled by the same factor.
func LDEV(s *timeseries.Series, opts *Options) (*Result, error) {
	r, err := MHDEV(s, opts)
	if err != nil {
		return nil, err
	}
	r.Kind = KindLDEV
	r.scale(func(tau float64) float64 { return tau * ldevScale })
	return r, nil
}
