package timeseries

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DetrendLinear removes the ordinary least-squares line fitted to x against
// its sample index and returns the residuals. x is not modified.
func DetrendLinear(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) < 2 {
		return out
	}

	idx := ramp(len(x))
	alpha, beta := stat.LinearRegression(idx, x, nil, false)
	for i, v := range x {
		out[i] = v - (alpha + beta*idx[i])
	}
	return out
}

// DetrendQuadratic removes the least-squares quadratic fitted to x against
// its sample index and returns the residuals. Series shorter than four
// points fall back to a linear fit.
func DetrendQuadratic(x []float64) []float64 {
	n := len(x)
	if n < 4 {
		return DetrendLinear(x)
	}

	// centred, unit-scaled abscissa keeps the normal equations well conditioned
	centre := float64(n-1) / 2
	scale := float64(n)
	design := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		t := (float64(i) - centre) / scale
		design.Set(i, 0, 1)
		design.Set(i, 1, t)
		design.Set(i, 2, t*t)
	}

	var coef mat.VecDense
	if err := coef.SolveVec(design, mat.NewVecDense(n, append([]float64(nil), x...))); err != nil {
		return DetrendLinear(x)
	}

	c0, c1, c2 := coef.AtVec(0), coef.AtVec(1), coef.AtVec(2)
	out := make([]float64, n)
	for i, v := range x {
		t := (float64(i) - centre) / scale
		out[i] = v - (c0 + c1*t + c2*t*t)
	}
	return out
}

func ramp(n int) []float64 {
	r := make([]float64, n)
	for i := range r {
		r[i] = float64(i)
	}
	return r
}
