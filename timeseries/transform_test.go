package timeseries

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifference(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 3}, Difference([]float64{0, 1, 3, 6}))
	assert.Equal(t, []float64{1, 1}, Difference(Difference([]float64{0, 1, 3, 6})))
	assert.Empty(t, Difference([]float64{1}))
}

func TestPrefixSum(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	s := PrefixSum(x)
	assert.Equal(t, []float64{0, 1, 3, 6, 10}, s)

	// block x[1:3] = 2+3
	assert.Equal(t, 5.0, s[3]-s[1])

	buf := make([]float64, 0, 16)
	reused := PrefixSumTo(buf, x)
	assert.Equal(t, s, reused)
}

func TestReflectExtendInverted(t *testing.T) {
	x := []float64{1, 2, 4, 7}
	ext := ReflectExtend(x, 2, true)

	// 2*1-4, 2*1-2, x..., 2*7-4, 2*7-2
	assert.Equal(t, []float64{-2, 0, 1, 2, 4, 7, 10, 12}, ext)
	assert.Equal(t, []float64{1, 2, 4, 7}, x)
}

func TestReflectExtendUninverted(t *testing.T) {
	x := []float64{1, 2, 3}
	ext := ReflectExtend(x, 3, false)
	assert.Equal(t, []float64{3, 2, 1, 1, 2, 3, 3, 2, 1}, ext)
}

func TestReflectExtendClampsK(t *testing.T) {
	x := []float64{1, 2, 3}
	assert.Len(t, ReflectExtend(x, 10, true), 3+2*2)
	assert.Len(t, ReflectExtend(x, 10, false), 3+2*3)
}

func TestReflectExtendTotalLength(t *testing.T) {
	n := 50
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(float64(i))
	}
	ext := ReflectExtend(x, n-2, true)
	assert.Len(t, ext, 3*n-4)
}

func TestDecimateAndBlockAverage(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7}
	assert.Equal(t, []float64{1, 4, 7}, Decimate(x, 3))
	assert.Equal(t, []float64{2, 5}, BlockAverage(x, 3))
	assert.Equal(t, x, Decimate(x, 1))
}

func TestDetrendLinear(t *testing.T) {
	x := make([]float64, 20)
	for i := range x {
		x[i] = 3 + 0.5*float64(i)
	}
	res := DetrendLinear(x)
	for _, v := range res {
		assert.InDelta(t, 0, v, 1e-12)
	}

	// residuals of an OLS fit are orthogonal to the constant
	y := []float64{1, 4, 2, 8, 5, 7}
	sum := 0.0
	for _, v := range DetrendLinear(y) {
		sum += v
	}
	assert.InDelta(t, 0, sum, 1e-12)
}

func TestDetrendQuadratic(t *testing.T) {
	x := make([]float64, 64)
	for i := range x {
		fi := float64(i)
		x[i] = 1e-9 * (2 - 3*fi + 0.25*fi*fi)
	}
	for _, v := range DetrendQuadratic(x) {
		assert.InDelta(t, 0, v, 1e-15)
	}

	short := DetrendQuadratic([]float64{1, 2, 3})
	assert.Len(t, short, 3)
}

func TestLoadPhaseFromReader(t *testing.T) {
	data := `# phase record, ns
% generated
time phase
0 1.5
1 2.5

2 3.5
3 bad
4 4.5`

	opts := DefaultLoadOptions()
	opts.Column = 1
	opts.Scale = 1e-9
	opts.Tau0 = 2

	s, err := LoadPhaseFromReader(strings.NewReader(data), opts)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 2.0, s.Tau0)
	assert.InDeltaSlice(t, []float64{1.5e-9, 2.5e-9, 3.5e-9, 4.5e-9}, s.Values, 1e-20)

	opts.MaxRows = 2
	s, err = LoadPhaseFromReader(strings.NewReader(data), opts)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.5e-9, 2.5e-9}, s.Values, 1e-20)

	opts.MaxRows = 10
	s, err = LoadPhaseFromReader(strings.NewReader(data), opts)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())
}

func TestLoadPhaseSingleColumnCSV(t *testing.T) {
	s, err := LoadPhaseFromReader(strings.NewReader("1.0\n2.0,\n3e-1;\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 0.3}, s.Values)
	assert.Equal(t, 1.0, s.Tau0)
}

func TestLoadPhaseEmpty(t *testing.T) {
	_, err := LoadPhaseFromReader(strings.NewReader("# nothing\n"), nil)
	assert.Error(t, err)
}

func TestSavePhaseRoundTrip(t *testing.T) {
	var sb strings.Builder
	src := New([]float64{1e-9, -2.5e-10, 3}, 1)
	require.NoError(t, SavePhase(&sb, src))

	back, err := LoadPhaseFromReader(strings.NewReader(sb.String()), nil)
	require.NoError(t, err)
	assert.Equal(t, src.Values, back.Values)
}
