// Package noisegen generates seeded synthetic phase records for the
// power-law noise types.
package noisegen

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/stablab/timeseries"
)

// Model is a power-law noise model.
type Model string

const (
	WhitePM      Model = "wpm"
	FlickerPM    Model = "fpm"
	WhiteFM      Model = "wfm"
	FlickerFM    Model = "ffm"
	RandomWalkFM Model = "rwfm"
)

// Models returns every model in order of decreasing alpha.
func Models() []Model {
	return []Model{WhitePM, FlickerPM, WhiteFM, FlickerFM, RandomWalkFM}
}

// Alpha returns the exponent of S_y(f) ∝ f^α for the model.
func (m Model) Alpha() int {
	switch m {
	case WhitePM:
		return 2
	case FlickerPM:
		return 1
	case WhiteFM:
		return 0
	case FlickerFM:
		return -1
	}
	return -2
}

// ParseModel resolves a model name, case-insensitively.
func ParseModel(name string) (Model, error) {
	key := Model(strings.ToLower(strings.TrimSpace(name)))
	for _, m := range Models() {
		if m == key {
			return m, nil
		}
	}
	return "", timeseries.Invalid("noise model", fmt.Sprintf("unknown model %q", name))
}

// Config holds generator settings.
type Config struct {
	N     int     // number of phase samples
	Seed  int64   // random seed
	Scale float64 // multiplier applied to the unit-variance innovations
	Tau0  float64 // sampling interval of the returned series
}

// DefaultConfig returns 1000 samples, seed 42, 1 ns innovations and
// τ₀ = 1 s.
func DefaultConfig() *Config {
	return &Config{
		N:     1000,
		Seed:  42,
		Scale: 1e-9,
		Tau0:  1,
	}
}

// Generate returns a phase series of the given model. Identical
// configurations produce identical series.
func Generate(model Model, cfg *Config) (*timeseries.Series, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.N < 1 {
		return nil, timeseries.Invalid("n", fmt.Sprintf("need at least one sample, got %d", cfg.N))
	}
	tau0 := cfg.Tau0
	if tau0 == 0 {
		tau0 = 1
	}
	if err := timeseries.ValidateTau0(tau0); err != nil {
		return nil, err
	}
	scale := cfg.Scale
	if scale == 0 {
		scale = 1
	}

	g := Gaussian(cfg.N, cfg.Seed)
	var x []float64
	switch model {
	case WhitePM:
		x = g
	case FlickerPM:
		x = PowerLaw(g, 1)
	case WhiteFM:
		x = CumSum(g)
	case FlickerFM:
		x = CumSum(PowerLaw(g, 1))
	case RandomWalkFM:
		x = CumSum(CumSum(g))
	default:
		return nil, timeseries.Invalid("noise model", fmt.Sprintf("unknown model %q", model))
	}

	for i := range x {
		x[i] *= scale
	}
	s := timeseries.New(x, tau0)
	s.Name = fmt.Sprintf("%s-n%d-seed%d", model, cfg.N, cfg.Seed)
	return s, nil
}

// Gaussian returns n unit-variance normal samples from seed.
func Gaussian(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	g := make([]float64, n)
	for i := range g {
		g[i] = rng.NormFloat64()
	}
	return g
}

// CumSum returns the running sum of x.
func CumSum(x []float64) []float64 {
	out := make([]float64, len(x))
	acc := 0.0
	for i, v := range x {
		acc += v
		out[i] = acc
	}
	return out
}

// PowerLaw filters white noise w into noise with spectrum ∝ f^-beta using
// Kasdin's recursive impulse response, truncated at len(w) and applied by
// zero-padded FFT convolution.
func PowerLaw(w []float64, beta float64) []float64 {
	n := len(w)
	if n == 0 {
		return nil
	}
	size := 2 * n
	h := make([]float64, size)
	h[0] = 1
	for k := 1; k < n; k++ {
		h[k] = h[k-1] * (beta/2 + float64(k-1)) / float64(k)
	}
	padded := make([]float64, size)
	copy(padded, w)

	fft := fourier.NewFFT(size)
	hc := fft.Coefficients(nil, h)
	wc := fft.Coefficients(nil, padded)
	for i := range hc {
		hc[i] *= wc[i]
	}
	// the round trip is unnormalized by the transform length
	seq := fft.Sequence(nil, hc)

	out := make([]float64, n)
	for i := range out {
		out[i] = seq[i] / float64(size)
	}
	return out
}

// Slope fits log10(dev) against log10(tau) by least squares and returns
// the slope, ignoring non-positive or non-finite points.
func Slope(tau, dev []float64) float64 {
	var lx, ly []float64
	for i := range tau {
		if i >= len(dev) || !(tau[i] > 0) || !(dev[i] > 0) || math.IsInf(dev[i], 0) {
			continue
		}
		lx = append(lx, math.Log10(tau[i]))
		ly = append(ly, math.Log10(dev[i]))
	}
	if len(lx) < 2 {
		return math.NaN()
	}
	_, slope := stat.LinearRegression(lx, ly, nil, false)
	return slope
}
