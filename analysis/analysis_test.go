package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sartorproj/stablab/deviation"
	"github.com/sartorproj/stablab/noisegen"
	"github.com/sartorproj/stablab/timeseries"
)

func testSeries(t *testing.T) *timeseries.Series {
	t.Helper()
	s, err := noisegen.Generate(noisegen.WhiteFM, &noisegen.Config{N: 600, Seed: 42, Scale: 1e-9, Tau0: 1})
	require.NoError(t, err)
	return s
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultEstimators(), cfg.Estimators)
	assert.Equal(t, deviation.DefaultConfidence, cfg.Confidence)
	assert.Equal(t, deviation.Full, cfg.Method)
	assert.Equal(t, NoiseAuto, cfg.NoiseID)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Cache)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no estimators", func(c *Config) { c.Estimators = nil }},
		{"unknown estimator", func(c *Config) { c.Estimators = []deviation.Kind{"qdev"} }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"unknown noise id", func(c *Config) { c.NoiseID = "psd" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseEstimators(t *testing.T) {
	kinds, err := ParseEstimators([]string{"oadev", " MDEV", "", "theo1"})
	require.NoError(t, err)
	assert.Equal(t, []deviation.Kind{deviation.KindADEV, deviation.KindMDEV, deviation.KindTHEO1}, kinds)

	_, err = ParseEstimators([]string{"adev", "wdev"})
	assert.ErrorIs(t, err, timeseries.ErrInvalidInput)
}

func TestNoiseIdentifierStrategies(t *testing.T) {
	for _, name := range []string{"", NoiseAuto, NoiseLag1, NoiseB1, NoiseNone, "LAG1"} {
		id, err := NoiseIdentifier(name)
		require.NoError(t, err, name)
		assert.NotNil(t, id)
	}
	_, err := NoiseIdentifier("spectral")
	assert.Error(t, err)
}

func TestRunMatchesDirectComputation(t *testing.T) {
	s := testSeries(t)
	cfg := DefaultConfig()
	cfg.Workers = 3

	report, err := Run(context.Background(), s, cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, s.Name, report.Dataset)
	assert.Equal(t, 600, report.N)
	assert.Equal(t, cfg.Estimators, report.Order)

	for _, kind := range cfg.Estimators {
		got := report.Result(kind)
		require.NotNil(t, got, kind)
		want, err := deviation.Compute(kind, s, nil)
		require.NoError(t, err)
		assert.Equal(t, want.M, got.M, kind)
		assert.Equal(t, want.Dev, got.Dev, kind)
		assert.InDeltaSlice(t, want.Alpha, got.Alpha, 0, kind)
	}

	summaries := report.Summaries()
	require.Len(t, summaries, len(cfg.Estimators))
	adev := summaries[0]
	assert.Equal(t, deviation.KindADEV, adev.Kind)
	assert.LessOrEqual(t, adev.MinDev, adev.MaxDev)
	assert.InDelta(t, -0.5, adev.Slope, 0.3)
}

func TestSummariesEmptyResult(t *testing.T) {
	report := &Report{
		Order:   []deviation.Kind{deviation.KindADEV},
		Results: map[deviation.Kind]*deviation.Result{deviation.KindADEV: {}},
	}
	summaries := report.Summaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, 0, summaries[0].Points)
	assert.True(t, math.IsNaN(summaries[0].MinDev))
	assert.True(t, math.IsNaN(summaries[0].MaxDev))
	assert.True(t, math.IsNaN(summaries[0].Slope))
}

func TestRunDeduplicatesEstimators(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Estimators = []deviation.Kind{deviation.KindTIE, deviation.KindADEV, deviation.KindTIE}
	report, err := Run(context.Background(), testSeries(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, []deviation.Kind{deviation.KindTIE, deviation.KindADEV}, report.Order)
	assert.Len(t, report.Results, 2)
}

func TestRunErrors(t *testing.T) {
	s := testSeries(t)

	cfg := DefaultConfig()
	cfg.Estimators = []deviation.Kind{deviation.KindTHEO1}
	cfg.Factors = []int{11}
	_, err := Run(context.Background(), s, cfg)
	assert.ErrorIs(t, err, timeseries.ErrInvalidInput)

	_, err = Run(context.Background(), timeseries.New(nil, 1), nil)
	assert.ErrorIs(t, err, timeseries.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, s, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSharesCachedIdentification(t *testing.T) {
	s := testSeries(t)
	cfg := DefaultConfig()
	cfg.Estimators = []deviation.Kind{deviation.KindADEV, deviation.KindMDEV, deviation.KindTDEV}
	cfg.Factors = []int{1, 2, 4}

	cached, err := Run(context.Background(), s, cfg)
	require.NoError(t, err)
	cfg.Cache = false
	plain, err := Run(context.Background(), s, cfg)
	require.NoError(t, err)

	for _, k := range cfg.Estimators {
		assert.InDeltaSlice(t, plain.Result(k).Alpha, cached.Result(k).Alpha, 0)
	}
}

func TestFloatJSON(t *testing.T) {
	b, err := json.Marshal([]Float{1.5, Float(math.NaN()), Float(math.Inf(1))})
	require.NoError(t, err)
	assert.Equal(t, "[1.5,null,null]", string(b))

	var back []Float
	require.NoError(t, json.Unmarshal(b, &back))
	require.Len(t, back, 3)
	assert.Equal(t, Float(1.5), back[0])
	assert.True(t, math.IsNaN(float64(back[1])))
}

func TestFixtureRoundTripAndCompare(t *testing.T) {
	s := testSeries(t)
	cfg := DefaultConfig()
	cfg.Estimators = []deviation.Kind{deviation.KindADEV, deviation.KindTOTDEV}
	report, err := Run(context.Background(), s, cfg)
	require.NoError(t, err)

	seed := int64(42)
	fx := NewFixture(report, s.Values, &seed)
	assert.Equal(t, 600, fx.Metadata.N)
	assert.LessOrEqual(t, fx.Metadata.DataRange[0], fx.Metadata.DataRange[1])
	require.Contains(t, fx.Results, "adev")

	var buf bytes.Buffer
	require.NoError(t, WriteFixture(&buf, fx))

	back, err := ReadFixture(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, fx.Results["adev"].M, back.Results["adev"].M)
	require.NotNil(t, back.Metadata.Seed)
	assert.Equal(t, seed, *back.Metadata.Seed)

	// a fixture without a seed still carries the key
	raw, err := json.Marshal(NewFixture(report, s.Values, nil).Metadata)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"seed":null`)

	cmp, err := CompareFixture(report, buf.Bytes())
	require.NoError(t, err)
	require.Len(t, cmp, 2)
	for _, c := range cmp {
		assert.True(t, c.Within(1e-12), c.Name)
		assert.Equal(t, report.Result(c.Kind).Len(), c.Matched)
	}
}

func TestCompareFixtureReference(t *testing.T) {
	s := timeseries.New([]float64{0, 1, 4, 9, 16, 25, 36, 49, 64, 81}, 1)
	cfg := DefaultConfig()
	cfg.Estimators = []deviation.Kind{deviation.KindADEV}
	cfg.Factors = []int{1, 2}
	report, err := Run(context.Background(), s, cfg)
	require.NoError(t, err)

	// quadratic phase: adev = √2·m
	ref := []byte(`{
		"metadata": {"dataset": "quad", "N": 10, "tau0": 1},
		"results": {
			"oadev": {"tau": [1, 2, 3], "dev": [1.4142135623730951, 2.9, null], "m": [1, 2, 3]},
			"mdev": {"tau": [1], "dev": [1.0], "m": [1]},
			"foo": {"tau": [1], "dev": [1.0]}
		}
	}`)
	cmp, err := CompareFixture(report, ref)
	require.NoError(t, err)
	require.Len(t, cmp, 2)

	assert.Equal(t, "mdev", cmp[0].Name)
	assert.True(t, cmp[0].Missing)
	assert.False(t, cmp[0].Within(1))

	assert.Equal(t, "oadev", cmp[1].Name)
	assert.Equal(t, deviation.KindADEV, cmp[1].Kind)
	assert.Equal(t, 2, cmp[1].Matched)
	assert.InDelta(t, math.Abs(2*math.Sqrt2-2.9)/2.9, cmp[1].MaxRelErr, 1e-12)

	_, err = CompareFixture(report, []byte(`{"metadata": {}}`))
	assert.Error(t, err)
	_, err = CompareFixture(report, []byte(`{not json`))
	assert.Error(t, err)
}

func TestWriteWorkbook(t *testing.T) {
	s := testSeries(t)
	cfg := DefaultConfig()
	cfg.Estimators = []deviation.Kind{deviation.KindADEV, deviation.KindMTIE}
	report, err := Run(context.Background(), s, cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(path, report))
	_, err = os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "adev", "mtie"}, f.GetSheetList())

	rows, err := f.GetRows("adev")
	require.NoError(t, err)
	assert.Equal(t, workbookHeaders, rows[0])
	assert.Len(t, rows, report.Result(deviation.KindADEV).Len()+1)

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, "adev", summary[1][0])
}
