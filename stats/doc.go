// Package stats identifies the dominant power-law noise type of a phase or
// frequency record.
//
// The noise type is reported as the exponent α of the fractional-frequency
// spectrum S_y(f) ∝ f^α:
//
//	 2  white PM        (WhitePM)
//	 1  flicker PM      (FlickerPM)
//	 0  white FM        (WhiteFM)
//	-1  flicker FM      (FlickerFM)
//	-2  random-walk FM  (RandomWalkFM)
//
// # Identifiers
//
// Every strategy satisfies NoiseIdentifier and returns one α per averaging
// factor, NaN where the type could not be determined:
//
//	id := stats.NewAutoIdentifier()
//	alphas := id.Identify(phase, []int{1, 2, 4, 8}, stats.Phase)
//
// AutoIdentifier uses the lag-1 autocorrelation method while N/m ≥ 30 and
// falls back to the B1 ratio with an R(n) check for fewer averages.
// UnknownIdentifier skips identification entirely.
//
// Wrap any identifier in a CachedIdentifier to reuse results across
// estimators run on the same data:
//
//	cached := stats.NewCachedIdentifier(nil)
//
// # Autocorrelation
//
//	r1 := stats.Lag1(x)
//	rho, d, err := stats.NDiffs(x, 0, 2)
package stats
