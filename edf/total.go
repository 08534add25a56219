package edf

import "math"

// TotalKind selects a total-deviation EDF table.
type TotalKind int

const (
	Tot TotalKind = iota
	ModTot
	HadamardTot
)

func (k TotalKind) String() string {
	switch k {
	case Tot:
		return "totvar"
	case ModTot:
		return "mtotvar"
	case HadamardTot:
		return "htotvar"
	}
	return "unknown"
}

// edf = b·N/m - c, rows by noise type
var (
	totTable = map[int][2]float64{
		0:  {1.50, 0.0},
		-1: {1.17, 0.22},
		-2: {0.93, 0.36},
	}
	// indexed by |alpha-2|: WPM, FPM, WFM, FFM, RWFM
	mtotTable = [5][2]float64{
		{1.90, 2.1},
		{1.20, 1.40},
		{1.10, 1.2},
		{0.85, 0.50},
		{0.75, 0.31},
	}
	htotTable = map[int][2]float64{
		0:  {0.559, 1.004},
		-1: {0.868, 1.140},
		-2: {0.938, 1.696},
	}
)

// Total returns the EDF of a total-family variance at averaging factor m
// over n phase points. PM noise for Tot and HadamardTot is delegated to the
// Greenhall overlapping unmodified model; anything else without a table
// entry is NaN.
func Total(kind TotalKind, alpha float64, m, n int) float64 {
	if math.IsNaN(alpha) || alpha != math.Trunc(alpha) || m < 1 || n < 1 {
		return math.NaN()
	}
	a := int(alpha)
	ratio := float64(n) / float64(m)

	switch kind {
	case Tot:
		if bc, ok := totTable[a]; ok {
			return finite(bc[0]*ratio - bc[1])
		}
		if a == 1 || a == 2 {
			return Greenhall(alpha, 2, m, n, true, false)
		}
	case ModTot:
		idx := 2 - a
		if idx >= 0 && idx < len(mtotTable) {
			bc := mtotTable[idx]
			return finite(bc[0]*ratio - bc[1])
		}
	case HadamardTot:
		if bc, ok := htotTable[a]; ok {
			return finite(bc[0]*ratio - bc[1])
		}
		if a == 1 || a == 2 {
			return Greenhall(alpha, 3, m, n, true, false)
		}
	}
	return math.NaN()
}

// Kn returns the Gaussian fallback factor used when no EDF model applies.
// Unknown noise types get the conservative 1.10.
func Kn(alpha float64) float64 {
	switch alpha {
	case 2, 1:
		return 0.99
	case 0:
		return 0.87
	case -1:
		return 0.77
	case -2:
		return 0.75
	}
	return 1.10
}

// TotvarBias is the Totvar bias factor B = 1 - a·τ/T with τ/T = m/(n-1).
// Unknown alpha gives 1.
func TotvarBias(alpha float64, m, n int) float64 {
	if n < 2 {
		return 1
	}
	var a float64
	switch alpha {
	case -1:
		a = 1 / (3 * math.Ln2)
	case -2:
		a = 0.75
	default:
		return 1
	}
	return 1 - a*float64(m)/float64(n-1)
}

// HtotvarBias is the Hadamard Totvar bias factor B = 1 + a for FM noise;
// PM and unknown noise give 1.
func HtotvarBias(alpha float64) float64 {
	switch alpha {
	case 0:
		return 1 - 0.005
	case -1:
		return 1 - 0.149
	case -2:
		return 1 - 0.229
	case -3:
		return 1 - 0.283
	case -4:
		return 1 - 0.321
	}
	return 1
}
