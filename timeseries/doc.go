// Package timeseries provides phase-series data structures and the
// preprocessing shared by the stability estimators.
//
// # Creating a Series
//
// A Series holds phase samples in seconds and the sampling interval τ₀:
//
//	series := timeseries.New(phase, 1.0)
//	if err := series.Validate(); errors.Is(err, timeseries.ErrInvalidInput) {
//	    // non-finite sample or non-positive tau0
//	}
//
// Fractional frequency data can be integrated into phase:
//
//	series := timeseries.FromFrequency(freq, tau0)
//
// # Loading Phase Records
//
// Load one- or two-column numeric text files:
//
//	opts := timeseries.DefaultLoadOptions()
//	opts.Column = 1      // second column holds phase
//	opts.Scale = 1e-9    // file is in nanoseconds
//	series, err := timeseries.LoadPhase("6krb25apr.txt", opts)
//
// Lines starting with '#' or '%' are ignored, and ".gz" files are
// decompressed on the fly.
//
// # Preprocessing
//
//	res := timeseries.DetrendLinear(x)      // remove frequency offset
//	res2 := timeseries.DetrendQuadratic(x)  // remove frequency offset and drift
//	s := timeseries.PrefixSum(x)            // block sums as s[j]-s[i]
//	ext := timeseries.ReflectExtend(x, k, true)
//
// # Averaging Factors
//
// DefaultFactors produces the octave list 1, 2, 4, ... bounded by the
// estimator's minimum point count:
//
//	ms := timeseries.DefaultFactors(len(x), 3) // 3m ≤ N
package timeseries
