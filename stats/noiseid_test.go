package stats

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sartorproj/stablab/noisegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLag1(t *testing.T) {
	x := []float64{1, 3, 2, 5, 4, 6, 5, 8}
	// sum of lag-1 products over sum of squares about the mean 4.25
	assert.InDelta(t, 8.6875/35.5, Lag1(x), 1e-12)

	assert.Less(t, math.Abs(Lag1(noisegen.Gaussian(4096, 3))), 0.1)
	assert.Greater(t, Lag1(noisegen.CumSum(noisegen.Gaussian(4096, 3))), 0.9)
}

func TestLag1Degenerate(t *testing.T) {
	assert.True(t, math.IsNaN(Lag1([]float64{1})))
	assert.True(t, math.IsNaN(Lag1([]float64{0, 0, 0, 0})))
}

func TestNDiffs(t *testing.T) {
	white := noisegen.Gaussian(2048, 1)
	rho, d, err := NDiffs(white, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, d)
	assert.Less(t, rho, whiteRho)

	walk := noisegen.CumSum(white)
	_, d, err = NDiffs(walk, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, d)

	_, _, err = NDiffs([]float64{1, 2, 3}, 0, 2)
	assert.Error(t, err)
}

func TestLag1IdentifierPhase(t *testing.T) {
	g := noisegen.Gaussian(4096, 7)
	tests := []struct {
		name  string
		phase []float64
		want  float64
	}{
		{"white PM", g, WhitePM},
		{"white FM", noisegen.CumSum(g), WhiteFM},
		{"random walk FM", noisegen.CumSum(noisegen.CumSum(g)), RandomWalkFM},
	}

	id := NewLag1Identifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alphas := id.Identify(tt.phase, []int{1}, Phase)
			require.Len(t, alphas, 1)
			assert.Equal(t, tt.want, alphas[0])
		})
	}
}

func TestLag1IdentifierFrequency(t *testing.T) {
	alphas := NewLag1Identifier().Identify(noisegen.Gaussian(4096, 3), []int{1, 4}, Frequency)
	assert.Equal(t, []float64{WhiteFM, WhiteFM}, alphas)
}

func TestLag1IdentifierDegenerate(t *testing.T) {
	zeros := make([]float64, 256)
	alphas := NewLag1Identifier().Identify(zeros, []int{1, 2}, Phase)
	require.Len(t, alphas, 2)
	for _, a := range alphas {
		assert.True(t, math.IsNaN(a))
	}

	res, err := NewLag1Identifier().Estimate(noisegen.Gaussian(64, 1), 32, Phase)
	assert.Error(t, err, "two decimated points are too few: %+v", res)
}

func TestPreprocessDropsOutliers(t *testing.T) {
	x := noisegen.Gaussian(500, 11)
	x[100] = 1e6
	out := Preprocess(x)
	assert.Len(t, out, 499)
	assert.Equal(t, 500, len(x), "input must not be modified")
}

func TestClassifyB1Theory(t *testing.T) {
	for _, n := range []int{5, 10, 100, 1000} {
		for _, mu := range []int{1, 0, -1, -2} {
			assert.Equal(t, mu, classifyB1(b1Theory(n, mu), n), "n=%d mu=%d", n, mu)
		}
	}
}

func TestB1TheoryGeneralBranch(t *testing.T) {
	// the closed form agrees with the special cases it generalizes
	n := 50
	fn := float64(n)
	general := fn * (1 - math.Pow(fn, 1)) / (2 * (fn - 1) * (1 - math.Pow(2, 1)))
	assert.InDelta(t, b1Theory(n, 1), general, 1e-12)
	assert.Greater(t, b1Theory(n, -3), 0.0)
}

func TestClassifyRnTheory(t *testing.T) {
	for _, m := range []int{2, 4, 16, 128} {
		assert.Equal(t, WhitePM, classifyRn(rnTheory(m, WhitePM), m), "m=%d", m)
		assert.Equal(t, FlickerPM, classifyRn(rnTheory(m, FlickerPM), m), "m=%d", m)
	}
}

func TestB1Identifier(t *testing.T) {
	g := noisegen.Gaussian(4096, 5)
	b1 := &B1Identifier{}

	assert.Equal(t, []float64{WhitePM}, b1.Identify(g, []int{8}, Phase))
	assert.Equal(t, []float64{WhiteFM}, b1.Identify(noisegen.CumSum(g), []int{1}, Phase))

	rw := b1.Identify(noisegen.CumSum(noisegen.CumSum(g)), []int{1}, Phase)
	assert.LessOrEqual(t, rw[0], float64(FlickerFM))

	tooFew := b1.Identify(g, []int{2048}, Phase)
	assert.True(t, math.IsNaN(tooFew[0]))
}

func TestAutoIdentifier(t *testing.T) {
	g := noisegen.Gaussian(4096, 9)
	phase := noisegen.CumSum(g)
	factors := []int{1, 2, 4, 8, 16, 256}

	alphas := NewAutoIdentifier().Identify(phase, factors, Phase)
	require.Len(t, alphas, len(factors))
	for i, m := range factors[:5] {
		assert.Equal(t, float64(WhiteFM), alphas[i], "m=%d", m)
	}

	invalid := NewAutoIdentifier().Identify(phase, []int{0}, Phase)
	assert.True(t, math.IsNaN(invalid[0]))
}

func TestUnknownIdentifier(t *testing.T) {
	alphas := UnknownIdentifier{}.Identify([]float64{1, 2, 3}, []int{1, 2, 4}, Phase)
	require.Len(t, alphas, 3)
	for _, a := range alphas {
		assert.True(t, math.IsNaN(a))
	}
}

func TestNoiseName(t *testing.T) {
	assert.Equal(t, "WPM", NoiseName(2))
	assert.Equal(t, "RWFM", NoiseName(-2))
	assert.Equal(t, "unknown", NoiseName(math.NaN()))
	assert.Equal(t, "frequency", Frequency.String())
}

type countingIdentifier struct {
	calls atomic.Int64
}

func (c *countingIdentifier) Identify(_ []float64, factors []int, _ DataType) []float64 {
	c.calls.Add(1)
	out := make([]float64, len(factors))
	for i, m := range factors {
		out[i] = float64(-m)
	}
	return out
}

func TestCachedIdentifier(t *testing.T) {
	inner := &countingIdentifier{}
	cached := NewCachedIdentifier(inner)
	x := noisegen.Gaussian(100, 1)

	first := cached.Identify(x, []int{1, 2}, Phase)
	second := cached.Identify(x, []int{2, 1}, Phase)
	assert.Equal(t, []float64{-1, -2}, first)
	assert.Equal(t, []float64{-2, -1}, second)
	assert.Equal(t, int64(2), inner.calls.Load())
	assert.Equal(t, 2, cached.Len())

	cached.Identify(x, []int{1}, Frequency)
	assert.Equal(t, int64(3), inner.calls.Load())

	other := append([]float64(nil), x...)
	other[0] += 1
	cached.Identify(other, []int{1}, Phase)
	assert.Equal(t, int64(4), inner.calls.Load())
}

func TestCachedIdentifierConcurrent(t *testing.T) {
	inner := &countingIdentifier{}
	cached := NewCachedIdentifier(inner)
	x := noisegen.Gaussian(100, 2)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cached.Identify(x, []int{4}, Phase)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), inner.calls.Load())
}

func TestFingerprint(t *testing.T) {
	a := []float64{1, 2, 3}
	assert.Equal(t, Fingerprint(a), Fingerprint([]float64{1, 2, 3}))
	assert.NotEqual(t, Fingerprint(a), Fingerprint([]float64{1, 2, 3.0000001}))
}
