package deviation

import (
	"math"

	"github.com/sartorproj/stablab/edf"
	"github.com/sartorproj/stablab/timeseries"
)

// TOTDEV computes the total deviation: the linearly detrended record is
// extended by N-2 odd reflections at each end and second differences are
// centred on every interior sample. The result is divided by the Totvar
// bias for the identified noise type.
func TOTDEV(s *timeseries.Series, opts *Options) (*Result, error) {
	return run(estimator{
		kind:    KindTOTDEV,
		point:   totdevPoint,
		correct: totvarCorrection,
	}, s, opts)
}

func totdevPoint(x []float64, tau0 float64, m int) (float64, int, bool) {
	n := len(x)
	if m < 1 || n < 3 || 2*m > n-1 {
		return 0, 0, false
	}
	k := n - 2
	ext := timeseries.ReflectExtend(timeseries.DetrendLinear(x), k, true)

	sum := 0.0
	for i := 1; i <= n-2; i++ {
		c := i + k
		d := ext[c-m] - 2*ext[c] + ext[c+m]
		sum += d * d
	}
	tau := float64(m) * tau0
	return math.Sqrt(sum / (2 * tau * tau * float64(n-2))), n - 2, true
}

func totvarCorrection(r *Result) {
	for i, m := range r.M {
		b := edf.TotvarBias(r.Alpha[i], m, r.N)
		if b > 0 && b != 1 {
			r.Dev[i] /= math.Sqrt(b)
		}
	}
}

// MTOTDEV computes the modified total deviation. Every 3m-point phase
// subsequence is detrended with its half averages, extended to 9m points
// by even reflection and contributes the 6m second differences of its
// m-point averages.
func MTOTDEV(s *timeseries.Series, opts *Options) (*Result, error) {
	return run(estimator{kind: KindMTOTDEV, point: mtotdevPoint}, s, opts)
}

func mtotdevPoint(x []float64, tau0 float64, m int) (float64, int, bool) {
	acc, nsubs := reflectedSubsequences(x, m)
	if nsubs == 0 {
		return 0, 0, false
	}
	tau := float64(m) * tau0
	return sqrtVar(acc / (2 * tau * tau * float64(nsubs))), nsubs, true
}

// HTOTDEV computes the Hadamard total deviation on the fractional
// frequency y = Δx/τ₀. At m = 1 it equals HDEV. Otherwise it has the
// structure of MTOTDEV applied to frequency and is divided by the
// Hadamard Totvar bias.
func HTOTDEV(s *timeseries.Series, opts *Options) (*Result, error) {
	return run(estimator{
		kind:    KindHTOTDEV,
		point:   htotdevPoint,
		correct: htotvarCorrection,
	}, s, opts)
}

func htotdevPoint(x []float64, tau0 float64, m int) (float64, int, bool) {
	if m < 1 || len(x)-1 < 3*m {
		return 0, 0, false
	}
	if m == 1 {
		return hdevPoint(x, tau0, 1)
	}

	y := timeseries.Difference(x)
	for i := range y {
		y[i] /= tau0
	}
	acc, nsubs := reflectedSubsequences(y, m)
	if nsubs == 0 {
		return 0, 0, false
	}
	return sqrtVar(acc / (6 * float64(nsubs))), nsubs, true
}

func htotvarCorrection(r *Result) {
	for i, m := range r.M {
		if m == 1 {
			continue
		}
		if b := edf.HtotvarBias(r.Alpha[i]); b > 0 && b != 1 {
			r.Dev[i] /= math.Sqrt(b)
		}
	}
}

// reflectedSubsequences sums, over every 3m-point window of v, the mean
// square second difference of m-point averages of the half-average
// detrended window extended to 9m points. It returns the sum and the
// window count.
func reflectedSubsequences(v []float64, m int) (float64, int) {
	nsubs := len(v) - 3*m + 1
	if m < 1 || nsubs < 1 {
		return 0, 0
	}

	w := 3 * m
	fm := float64(m)
	seg := make([]float64, w)
	ext := make([]float64, 0, 9*m)
	cum := make([]float64, 0, 9*m+1)

	acc := 0.0
	for i := 0; i < nsubs; i++ {
		halfAverageDetrend(seg, v[i:i+w])
		ext = timeseries.ReflectExtendTo(ext, seg, w, false)
		cum = timeseries.PrefixSumTo(cum, ext)

		block := 0.0
		for j := 0; j < 6*m; j++ {
			m1 := cum[j+m] - cum[j]
			m2 := cum[j+2*m] - cum[j+m]
			m3 := cum[j+3*m] - cum[j+2*m]
			d := (m1 - 2*m2 + m3) / fm
			block += d * d
		}
		acc += block / (6 * fm)
	}
	return acc, nsubs
}

// halfAverageDetrend writes src minus the line through the means of its
// first and second halves into dst. The halves are src[:⌊n/2⌋] and
// src[⌈n/2⌉:] as in allantools' htotdev, so for odd lengths the middle
// sample is in neither half.
func halfAverageDetrend(dst, src []float64) {
	n := len(src)
	h1, h2 := n/2, (n+1)/2
	mean := func(v []float64) float64 {
		sum := 0.0
		for _, x := range v {
			sum += x
		}
		return sum / float64(len(v))
	}

	var slope float64
	if h1 > 0 {
		dist := float64(n) / 2
		if n%2 == 1 {
			dist = 0.5*float64(n-1) + 1
		}
		slope = (mean(src[h2:]) - mean(src[:h1])) / dist
	}
	for i, x := range src {
		dst[i] = x - slope*float64(i)
	}
}

// MHTOTDEV computes the modified Hadamard total deviation. Every
// (3m+1)-point phase segment is linearly detrended, extended by even
// reflection to three times its length, and contributes the mean square of
// m-point moving sums of its third differences.
// No EDF model exists for this estimator.
func MHTOTDEV(s *timeseries.Series, opts *Options) (*Result, error) {
	return run(estimator{kind: KindMHTOTDEV, point: mhtotdevPoint}, s, opts)
}

func mhtotdevPoint(x []float64, tau0 float64, m int) (float64, int, bool) {
	n := len(x)
	nsubs := n - 4*m + 1
	if m < 1 || nsubs < 1 {
		return 0, 0, false
	}

	l := 3*m + 1
	ext := make([]float64, 0, 3*l)
	d3 := make([]float64, 3*l-3*m)

	acc := 0.0
	for i := 0; i < nsubs; i++ {
		seg := timeseries.DetrendLinear(x[i : i+l])
		ext = timeseries.ReflectExtendTo(ext, seg, l, false)
		for j := range d3 {
			d3[j] = ext[j+3*m] - 3*ext[j+2*m] + 3*ext[j+m] - ext[j]
		}
		acc += movingSumVariance(d3, m, len(d3)-m+1)
	}

	tau := float64(m) * tau0
	return sqrtVar(acc/float64(nsubs)) / tau, nsubs, true
}
