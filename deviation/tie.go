package deviation

import (
	"math"

	"github.com/sartorproj/stablab/timeseries"
)

// TIE computes the RMS time interval error |x[i+m] - x[i]| over all N-m
// pairs.
func TIE(s *timeseries.Series, opts *Options) (*Result, error) {
	return run(estimator{kind: KindTIE, point: tiePoint}, s, opts)
}

func tiePoint(x []float64, _ float64, m int) (float64, int, bool) {
	l := len(x) - m
	if m < 1 || l < 1 {
		return 0, 0, false
	}
	sum := 0.0
	for i := 0; i < l; i++ {
		d := x[i+m] - x[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(l)), l, true
}

// MTIE computes the maximum time interval error: the largest peak-to-peak
// phase excursion in any window of m+1 samples.
func MTIE(s *timeseries.Series, opts *Options) (*Result, error) {
	return run(estimator{kind: KindMTIE, point: mtiePoint}, s, opts)
}

// mtieBruteForce is the window size below which a direct scan beats the
// monotonic deques.
const mtieBruteForce = 16

func mtiePoint(x []float64, _ float64, m int) (float64, int, bool) {
	n := len(x)
	if m < 1 || n <= m {
		return 0, 0, false
	}
	w := m + 1
	if w <= mtieBruteForce {
		return mtieScan(x, w), n - m, true
	}
	return mtieDeque(x, w), n - m, true
}

func mtieScan(x []float64, w int) float64 {
	best := 0.0
	for i := 0; i+w <= len(x); i++ {
		lo, hi := x[i], x[i]
		for _, v := range x[i+1 : i+w] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if hi-lo > best {
			best = hi - lo
		}
	}
	return best
}

// mtieDeque tracks window extrema with monotonic index queues in O(N).
func mtieDeque(x []float64, w int) float64 {
	maxQ := make([]int, 0, w)
	minQ := make([]int, 0, w)
	maxHead, minHead := 0, 0

	best := 0.0
	for j, v := range x {
		for len(maxQ) > maxHead && x[maxQ[len(maxQ)-1]] <= v {
			maxQ = maxQ[:len(maxQ)-1]
		}
		maxQ = append(maxQ, j)
		for len(minQ) > minHead && x[minQ[len(minQ)-1]] >= v {
			minQ = minQ[:len(minQ)-1]
		}
		minQ = append(minQ, j)

		start := j - w + 1
		if maxQ[maxHead] < start {
			maxHead++
		}
		if minQ[minHead] < start {
			minHead++
		}
		if start >= 0 {
			if span := x[maxQ[maxHead]] - x[minQ[minHead]]; span > best {
				best = span
			}
		}

		// reclaim the consumed prefix once it dominates the buffer
		if maxHead > w {
			maxQ = append(maxQ[:0], maxQ[maxHead:]...)
			maxHead = 0
		}
		if minHead > w {
			minQ = append(minQ[:0], minQ[minHead:]...)
			minHead = 0
		}
	}
	return best
}

// PDEV computes the parabolic deviation. At m = 1 it is identical to
// ADEV.
func PDEV(s *timeseries.Series, opts *Options) (*Result, error) {
	return run(estimator{kind: KindPDEV, point: pdevPoint}, s, opts)
}

func pdevPoint(x []float64, tau0 float64, m int) (float64, int, bool) {
	if m == 1 {
		return adevPoint(x, tau0, 1)
	}
	l := len(x) - 2*m
	if m < 1 || l < 1 {
		return 0, 0, false
	}

	half := float64(m-1) / 2
	sum := 0.0
	for i := 0; i < l; i++ {
		inner := 0.0
		for k := 0; k < m; k++ {
			inner += (half - float64(k)) * (x[i+k] - x[i+k+m])
		}
		sum += inner * inner
	}
	fm := float64(m)
	tau := fm * tau0
	v := 72 * sum / (float64(l) * fm * fm * fm * fm * tau * tau)
	return sqrtVar(v), l, true
}

// theo1Bias normalizes Theo1 to the Allan variance for white FM.
const theo1Bias = 0.75

// THEO1 computes the Theo1 deviation for even m with 10 ≤ m ≤ N-1. Each
// point is reported at the effective averaging time 0.75·m·τ₀.
func THEO1(s *timeseries.Series, opts *Options) (*Result, error) {
	return run(estimator{
		kind:  KindTHEO1,
		point: theo1Point,
		tau: func(m int, tau0 float64) float64 {
			return theo1Bias * float64(m) * tau0
		},
	}, s, opts)
}

func theo1Point(x []float64, tau0 float64, m int) (float64, int, bool) {
	n := len(x)
	if m < theo1MinFactor || m%2 != 0 || m > n-1 {
		return 0, 0, false
	}

	half := m / 2
	sum := 0.0
	for i := 0; i < n-m; i++ {
		for d := 0; d < half; d++ {
			t := (x[i] - x[i-d+half]) + (x[i+m] - x[i+d+half])
			sum += t * t / float64(half-d)
		}
	}
	tau := float64(m) * tau0
	return sqrtVar(sum / (theo1Bias * float64(n-m) * tau * tau)), n - m, true
}
