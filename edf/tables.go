package edf

import "math"

// coef is an (a0, a1) pair of Greenhall's asymptotic 1/edf = (a0 - a1/r)/r.
type coef struct{ a0, a1 float64 }

var nan = coef{math.NaN(), math.NaN()}

// Rows are alpha = 2 down to -4, columns d = 1..3.
var greenhallTable1 = [7][3]coef{
	{{2.0 / 3.0, 1.0 / 3.0}, {7.0 / 9.0, 1.0 / 2.0}, {22.0 / 25.0, 2.0 / 3.0}},
	{{0.840, 0.345}, {0.997, 0.616}, {1.141, 0.843}},
	{{1.079, 0.368}, {1.033, 0.607}, {1.184, 0.848}},
	{nan, {1.048, 0.534}, {1.180, 0.816}},
	{nan, {1.302, 0.535}, {1.175, 0.777}},
	{nan, nan, {1.194, 0.789}},
	{nan, nan, {1.489, 0.794}},
}

var greenhallTable2 = [7][3]coef{
	{{3.0 / 2.0, 1.0 / 2.0}, {35.0 / 18.0, 1.0}, {231.0 / 100.0, 3.0 / 2.0}},
	{{78.6, 25.2}, {790.0, 410.0}, {9950.0, 6520.0}},
	{{2.0 / 3.0, 1.0 / 6.0}, {2.0 / 3.0, 1.0 / 3.0}, {7.0 / 9.0, 1.0 / 2.0}},
	{nan, {0.852, 0.375}, {0.997, 0.617}},
	{nan, {1.079, 0.368}, {1.033, 0.607}},
	{nan, nan, {1.053, 0.553}},
	{nan, nan, {1.302, 0.535}},
}

// Sz(0) ≈ b0 + b1·ln m for flicker PM, d = 1..3.
var greenhallTable3 = [3][2]float64{
	{6.0, 4.0},
	{15.23, 12.0},
	{47.8, 40.0},
}

// table1 returns the modified-variance coefficients.
func table1(alpha, d int) (float64, float64) {
	c := lookup(&greenhallTable1, alpha, d)
	return c.a0, c.a1
}

// table2 returns the unmodified-variance coefficients.
func table2(alpha, d int) (float64, float64) {
	c := lookup(&greenhallTable2, alpha, d)
	return c.a0, c.a1
}

func table3(d int) (float64, float64) {
	if d < 1 || d > 3 {
		return math.NaN(), math.NaN()
	}
	row := greenhallTable3[d-1]
	return row[0], row[1]
}

func lookup(t *[7][3]coef, alpha, d int) coef {
	row := 2 - alpha
	if row < 0 || row > 6 || d < 1 || d > 3 {
		return nan
	}
	return t[row][d-1]
}
