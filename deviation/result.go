package deviation

// CIMethod selects how confidence intervals are derived.
type CIMethod string

const (
	// Full uses Greenhall or total-family EDF with chi-squared bounds and
	// falls back to a Kn-scaled Gaussian interval.
	Full CIMethod = "full"
	// Simple takes the effective sample count as EDF and a Gaussian
	// interval.
	Simple CIMethod = "simple"
)

// Result is the output of one estimator run. All per-tau slices have the
// same length; CI holds [lower, upper] pairs.
type Result struct {
	Tau   []float64
	Dev   []float64
	EDF   []float64
	CI    [][2]float64
	Alpha []float64 // NaN where the noise type is unknown
	Neff  []int
	M     []int

	Tau0       float64
	N          int
	Kind       Kind
	Confidence float64
	Method     CIMethod
}

// Len returns the number of tau points.
func (r *Result) Len() int {
	return len(r.Tau)
}

// Clone returns a deep copy of r.
func (r *Result) Clone() *Result {
	out := *r
	out.Tau = append([]float64(nil), r.Tau...)
	out.Dev = append([]float64(nil), r.Dev...)
	out.EDF = append([]float64(nil), r.EDF...)
	out.CI = append([][2]float64(nil), r.CI...)
	out.Alpha = append([]float64(nil), r.Alpha...)
	out.Neff = append([]int(nil), r.Neff...)
	out.M = append([]int(nil), r.M...)
	return &out
}

// Lower returns the lower confidence bounds.
func (r *Result) Lower() []float64 {
	lo := make([]float64, len(r.CI))
	for i, ci := range r.CI {
		lo[i] = ci[0]
	}
	return lo
}

// Upper returns the upper confidence bounds.
func (r *Result) Upper() []float64 {
	hi := make([]float64, len(r.CI))
	for i, ci := range r.CI {
		hi[i] = ci[1]
	}
	return hi
}

// scale multiplies the deviation and interval at each tau by f(tau).
func (r *Result) scale(f func(tau float64) float64) {
	for i, tau := range r.Tau {
		c := f(tau)
		r.Dev[i] *= c
		r.CI[i][0] *= c
		r.CI[i][1] *= c
	}
}
