package deviation

import (
	"fmt"
	"math"
	"sort"

	"github.com/sartorproj/stablab/stats"
	"github.com/sartorproj/stablab/timeseries"
)

// DefaultConfidence is the one-sigma confidence level.
const DefaultConfidence = 0.683

// Options configures an estimator run.
type Options struct {
	// Factors lists the averaging factors m. Nil selects the estimator's
	// octave defaults; an empty non-nil slice is rejected.
	Factors []int

	// Confidence level in (0, 1) for the intervals.
	Confidence float64

	Method CIMethod

	// Noise identifies the noise type per factor. Nil uses
	// stats.Default().
	Noise stats.NoiseIdentifier
}

// DefaultOptions returns options with default factors, a one-sigma full
// confidence interval and automatic noise identification.
func DefaultOptions() *Options {
	return &Options{
		Confidence: DefaultConfidence,
		Method:     Full,
	}
}

// withDefaults returns a filled-in copy; the caller's struct is not touched.
func (o *Options) withDefaults() *Options {
	out := DefaultOptions()
	if o != nil {
		*out = *o
	}
	if out.Confidence == 0 {
		out.Confidence = DefaultConfidence
	}
	if out.Method == "" {
		out.Method = Full
	}
	if out.Noise == nil {
		out.Noise = stats.Default()
	}
	return out
}

func validateLevel(level float64) error {
	if math.IsNaN(level) || level <= 0 || level >= 1 {
		return timeseries.Invalid("confidence", fmt.Sprintf("level must be in (0, 1), got %v", level))
	}
	return nil
}

func validateMethod(method CIMethod) error {
	switch method {
	case Full, Simple:
		return nil
	}
	return timeseries.Invalid("ci method", fmt.Sprintf("unknown method %q", method))
}

// resolveFactors validates the requested factors and returns them sorted
// without duplicates, or the defaults when none were requested.
func resolveFactors(kind Kind, n int, requested []int) ([]int, error) {
	if requested == nil {
		return DefaultFactors(kind, n), nil
	}
	if len(requested) == 0 {
		return nil, timeseries.Invalid("factors", "empty averaging factor list")
	}

	ms := make([]int, 0, len(requested))
	seen := make(map[int]struct{}, len(requested))
	for _, m := range requested {
		if m <= 0 {
			return nil, timeseries.Invalid("factors", fmt.Sprintf("averaging factor must be positive, got %d", m))
		}
		if kind == KindTHEO1 && m%2 != 0 {
			return nil, timeseries.Invalid("factors", fmt.Sprintf("theo1 needs even averaging factors, got %d", m))
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		ms = append(ms, m)
	}
	sort.Ints(ms)
	return ms, nil
}
