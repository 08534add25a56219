package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	mstats "github.com/montanaflynn/stats"
)

// Float is a float64 that encodes NaN and ±Inf as JSON null.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler; null decodes to NaN.
func (f *Float) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

func floats(x []float64) []Float {
	out := make([]Float, len(x))
	for i, v := range x {
		out[i] = Float(v)
	}
	return out
}

// FixtureMetadata describes the dataset a fixture was computed from.
type FixtureMetadata struct {
	ID        string     `json:"id,omitempty"`
	Dataset   string     `json:"dataset"`
	N         int        `json:"N"`
	Tau0      float64    `json:"tau0"`
	Seed      *int64     `json:"seed"`
	DataRange [2]float64 `json:"data_range"`
}

// FixtureResult is one estimator's curve.
type FixtureResult struct {
	Tau     []Float `json:"tau"`
	Dev     []Float `json:"dev"`
	M       []int   `json:"m"`
	Alpha   []Float `json:"alpha,omitempty"`
	EDF     []Float `json:"edf,omitempty"`
	CILower []Float `json:"ci_lower,omitempty"`
	CIUpper []Float `json:"ci_upper,omitempty"`
}

// Fixture is the reference JSON layout shared with other stability tools.
type Fixture struct {
	Metadata FixtureMetadata          `json:"metadata"`
	Results  map[string]FixtureResult `json:"results"`
}

// NewFixture converts a report into a fixture. x is the phase data the
// report was computed from and sets the data range; seed is recorded when
// the data was generated.
func NewFixture(r *Report, x []float64, seed *int64) *Fixture {
	f := &Fixture{
		Metadata: FixtureMetadata{
			ID:      r.ID,
			Dataset: r.Dataset,
			N:       r.N,
			Tau0:    r.Tau0,
			Seed:    seed,
		},
		Results: make(map[string]FixtureResult, len(r.Order)),
	}
	if lo, err := mstats.Min(x); err == nil {
		f.Metadata.DataRange[0] = lo
	}
	if hi, err := mstats.Max(x); err == nil {
		f.Metadata.DataRange[1] = hi
	}

	for _, k := range r.Order {
		res := r.Results[k]
		if res == nil {
			continue
		}
		f.Results[string(k)] = FixtureResult{
			Tau:     floats(res.Tau),
			Dev:     floats(res.Dev),
			M:       append([]int(nil), res.M...),
			Alpha:   floats(res.Alpha),
			EDF:     floats(res.EDF),
			CILower: floats(res.Lower()),
			CIUpper: floats(res.Upper()),
		}
	}
	return f
}

// WriteFixture encodes f as indented JSON.
func WriteFixture(w io.Writer, f *Fixture) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("analysis: encode fixture: %w", err)
	}
	return nil
}

// WriteFixtureFile writes f to path.
func WriteFixtureFile(path string, f *Fixture) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if err := WriteFixture(file, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadFixture decodes a fixture.
func ReadFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("analysis: decode fixture: %w", err)
	}
	return &f, nil
}
