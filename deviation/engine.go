package deviation

import (
	"math"

	"github.com/sartorproj/stablab/internal/logging"
	"github.com/sartorproj/stablab/stats"
	"github.com/sartorproj/stablab/timeseries"
)

// pointFunc evaluates one averaging factor. ok is false when x is too short
// for m.
type pointFunc func(x []float64, tau0 float64, m int) (dev float64, neff int, ok bool)

type estimator struct {
	kind  Kind
	point pointFunc

	// tau maps m to the reported averaging time; nil means m·τ₀
	tau func(m int, tau0 float64) float64

	// correct runs after noise identification, before intervals
	correct func(r *Result)
}

// run validates the input, sweeps the averaging factors, identifies the
// noise type once for the surviving factors and attaches intervals.
func run(e estimator, s *timeseries.Series, opts *Options) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	o := opts.withDefaults()
	if err := validateLevel(o.Confidence); err != nil {
		return nil, err
	}
	if err := validateMethod(o.Method); err != nil {
		return nil, err
	}

	x := s.Values
	ms, err := resolveFactors(e.kind, len(x), o.Factors)
	if err != nil {
		return nil, err
	}

	log := logging.Global()
	r := &Result{
		Tau0: s.Tau0,
		N:    len(x),
		Kind: e.kind,
	}
	for _, m := range ms {
		dev, neff, ok := e.point(x, s.Tau0, m)
		if !ok {
			log.Debug("averaging factor dropped, insufficient data",
				"estimator", string(e.kind), "m", m, "n", len(x))
			continue
		}
		tau := float64(m) * s.Tau0
		if e.tau != nil {
			tau = e.tau(m, s.Tau0)
		}
		r.Tau = append(r.Tau, tau)
		r.Dev = append(r.Dev, dev)
		r.Neff = append(r.Neff, neff)
		r.M = append(r.M, m)
	}

	r.Alpha = identify(o.Noise, x, r.M)
	if e.correct != nil {
		e.correct(r)
	}
	r.EDF = nanSlice(r.Len())
	r.CI = make([][2]float64, r.Len())
	for i := range r.CI {
		r.CI[i] = [2]float64{math.NaN(), math.NaN()}
	}

	return ConfidenceIntervals(r, o.Confidence, o.Method)
}

// identify runs the identifier once over all factors. A misbehaving
// identifier degrades to unknown noise.
func identify(id stats.NoiseIdentifier, x []float64, ms []int) []float64 {
	if len(ms) == 0 {
		return []float64{}
	}
	alpha := id.Identify(x, ms, stats.Phase)
	if len(alpha) != len(ms) {
		logging.Global().Debug("noise identifier returned wrong length",
			"want", len(ms), "got", len(alpha))
		return nanSlice(len(ms))
	}
	return alpha
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// sqrtVar returns √v, or NaN when cancellation made v negative.
func sqrtVar(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return math.NaN()
	}
	return math.Sqrt(v)
}
