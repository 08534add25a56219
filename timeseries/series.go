// Package timeseries provides phase-series data structures and preprocessing.
package timeseries

// Series represents a phase record sampled at a fixed interval.
type Series struct {
	Values []float64 // phase samples in seconds
	Tau0   float64   // sampling interval in seconds
	Name   string
}

// New creates a phase series from values sampled every tau0 seconds.
// The values are not copied and not validated; call Validate before use.
func New(values []float64, tau0 float64) *Series {
	return &Series{
		Values: values,
		Tau0:   tau0,
	}
}

// FromFrequency builds a phase series by integrating fractional frequency
// samples. The first phase sample is zero, so the result has len(freq)+1 points.
func FromFrequency(freq []float64, tau0 float64) *Series {
	values := make([]float64, len(freq)+1)
	for i, y := range freq {
		values[i+1] = values[i] + y*tau0
	}
	return New(values, tau0)
}

// Validate checks that every sample is finite and that the sampling
// interval is positive.
func (s *Series) Validate() error {
	if s == nil {
		return Invalid("series", "nil series")
	}
	if err := ValidateTau0(s.Tau0); err != nil {
		return err
	}
	return ValidatePhase(s.Values)
}

// Len returns the number of phase samples.
func (s *Series) Len() int {
	return len(s.Values)
}

// Slice returns a copy of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}, Tau0: s.Tau0, Name: s.Name}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	return &Series{
		Values: values,
		Tau0:   s.Tau0,
		Name:   s.Name,
	}
}
