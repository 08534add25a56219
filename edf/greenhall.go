package edf

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// jmax bounds the number of terms BasicSum evaluates before switching to
// the asymptotic tables.
const jmax = 100.0

// Sw is the power-law kernel of Greenhall's generalized autocovariance for
// noise exponent alpha. Unsupported alpha yields NaN.
func Sw(t float64, alpha int) float64 {
	switch alpha {
	case 2:
		return -math.Abs(t)
	case 1:
		return tlog(t, 2)
	case 0:
		return math.Abs(t * t * t)
	case -1:
		return tlog(t, 4)
	case -2:
		return math.Abs(math.Pow(t, 5))
	case -3:
		return tlog(t, 6)
	case -4:
		return math.Abs(math.Pow(t, 7))
	}
	return math.NaN()
}

// tlog returns t^p·ln|t|, defined as zero at t = 0.
func tlog(t float64, p float64) float64 {
	if t == 0 {
		return 0
	}
	return math.Pow(t, p) * math.Log(math.Abs(t))
}

// Sx applies the phase averaging filter of width 1/f to Sw.
// An infinite f uses the limiting kernel Sw(t, alpha+2).
func Sx(t, f float64, alpha int) float64 {
	if math.IsInf(f, 1) {
		return Sw(t, alpha+2)
	}
	return f * f * (2*Sw(t, alpha) - Sw(t-1/f, alpha) - Sw(t+1/f, alpha))
}

// Sz is the d-th order difference of Sx, d in 1..3.
func Sz(t, f float64, alpha, d int) float64 {
	switch d {
	case 1:
		return 2*Sx(t, f, alpha) - Sx(t-1, f, alpha) - Sx(t+1, f, alpha)
	case 2:
		return 6*Sx(t, f, alpha) -
			4*(Sx(t-1, f, alpha)+Sx(t+1, f, alpha)) +
			Sx(t-2, f, alpha) + Sx(t+2, f, alpha)
	case 3:
		return 20*Sx(t, f, alpha) -
			15*(Sx(t-1, f, alpha)+Sx(t+1, f, alpha)) +
			6*(Sx(t-2, f, alpha)+Sx(t+2, f, alpha)) -
			Sx(t-3, f, alpha) - Sx(t+3, f, alpha)
	}
	return math.NaN()
}

// BasicSum accumulates Sz² over lags 0..J with the taper 1 - j/M.
func BasicSum(j, m, s, f float64, alpha, d int) float64 {
	sum := sq(Sz(0, f, alpha, d))
	sum += (1 - j/m) * sq(Sz(j/s, f, alpha, d))
	for k := 1; k < int(j); k++ {
		fk := float64(k)
		sum += 2 * (1 - fk/m) * sq(Sz(fk/s, f, alpha, d))
	}
	return sum
}

// Calculate returns Greenhall's equivalent degrees of freedom for a
// variance built from d-th differences (d in 1..3) of phase averaged over
// 1/F of the interval m, sampled with stride m/S, from n phase points with
// noise exponent alpha.
//
// F = 1 selects the modified variances and F = m the unmodified ones;
// S = 1 is non-overlapped and S = m fully overlapped sampling.
// Unsupported combinations, alpha+2d ≤ 1 and too-short data give NaN.
func Calculate(alpha float64, d int, m, f, s float64, n int) float64 {
	if math.IsNaN(alpha) || alpha != math.Trunc(alpha) || alpha > 2 || alpha < -4 {
		return math.NaN()
	}
	if d < 1 || d > 3 || m < 1 || f < 1 || s < 1 {
		return math.NaN()
	}
	a := int(alpha)
	if a+2*d <= 1 {
		return math.NaN()
	}

	fd := float64(d)
	l := m/f + m*fd
	if l > float64(n) {
		return math.NaN()
	}
	bigM := 1 + math.Floor(s*(float64(n)-l)/m)
	j := math.Min(bigM, (fd+1)*s)
	r := bigM / s

	var inv float64
	switch {
	case f == 1:
		// modified variances
		switch {
		case j <= jmax:
			inv = BasicSum(j, bigM, s, 1, a, d) / (sq(Sz(0, 1, a, d)) * bigM)
		case r > fd+1:
			a0, a1 := table1(a, d)
			inv = (a0 - a1/r) / r
		default:
			mp := jmax / r
			inv = BasicSum(jmax, jmax, mp, 1, a, d) / (sq(Sz(0, 1, a, d)) * jmax)
		}

	case a <= 0:
		// unmodified, FM noise
		switch {
		case j <= jmax:
			fp := math.Inf(1)
			if m*(fd+1) <= jmax {
				fp = m
			}
			inv = BasicSum(j, bigM, s, fp, a, d) / (sq(Sz(0, fp, a, d)) * bigM)
		case r > fd+1:
			a0, a1 := table2(a, d)
			inv = (a0 - a1/r) / r
		default:
			mp := jmax / r
			inf := math.Inf(1)
			inv = BasicSum(jmax, jmax, mp, inf, a, d) / (sq(Sz(0, inf, a, d)) * jmax)
		}

	case a == 1:
		// unmodified, flicker PM
		switch {
		case j <= jmax:
			inv = BasicSum(j, bigM, s, m, a, d) / (sq(Sz(0, m, a, d)) * bigM)
		case r > fd+1:
			a0, a1 := table2(a, d)
			b0, b1 := table3(d)
			inv = (a0 - a1/r) / (r * sq(b0+b1*math.Log(m)))
		default:
			mp := jmax / r
			b0, b1 := table3(d)
			inv = BasicSum(jmax, jmax, mp, mp, a, d) / (sq(b0+b1*math.Log(m)) * jmax)
		}

	default:
		// unmodified, white PM: closed form
		k := math.Ceil(r)
		centre := combin.Binomial(2*d, d)
		sum := 1.0
		for i := 1; i <= d && float64(i) <= k-1; i++ {
			c := float64(combin.Binomial(2*d, d-i)) / float64(centre)
			sum += 2 * (1 - float64(i)/r) * c * c
		}
		inv = sum / bigM
	}

	return finite(1 / inv)
}

// Greenhall is Calculate with the filter and stride parameters derived
// from the estimator's overlap and modification flags.
func Greenhall(alpha float64, d, m, n int, overlapping, modified bool) float64 {
	fm := float64(m)
	f, s := fm, 1.0
	if modified {
		f = 1
	}
	if overlapping {
		s = fm
	}
	return Calculate(alpha, d, fm, f, s, n)
}

func sq(v float64) float64 {
	return v * v
}

// finite maps non-finite and non-positive EDF values to NaN.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return math.NaN()
	}
	return v
}
