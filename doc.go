// Package stablab provides frequency stability analysis of clock and
// oscillator phase data.
//
// It computes the Allan-variance family of estimators with equivalent
// degrees of freedom and confidence intervals, identifies power-law noise
// types and generates synthetic noise for testing.
//
// # Features
//
//   - Allan, modified Allan, Hadamard and modified Hadamard deviations
//   - Total, modified total, Hadamard total and modified Hadamard total deviations
//   - Time deviations (TDEV, LDEV), TIE and MTIE, parabolic deviation, Theo1
//   - Noise identification by lag-1 autocorrelation and the B1/R(n) ratios
//   - Greenhall EDF and chi-squared confidence intervals
//   - Seeded white, flicker and random-walk noise generators
//
// # Quick Start
//
// Compute the overlapping Allan deviation of a phase record:
//
//	series, _ := timeseries.LoadPhase("phase.txt", timeseries.DefaultLoadOptions())
//	result, _ := deviation.ADEV(series, nil)
//	for i, tau := range result.Tau {
//		fmt.Println(tau, result.Dev[i], result.CI[i])
//	}
//
// Run several estimators at once:
//
//	report, _ := analysis.Run(ctx, series, analysis.DefaultConfig())
//
// # Packages
//
//   - timeseries: Phase series, validation, detrending and loaders
//   - stats: Noise identification
//   - edf: Equivalent degrees of freedom models
//   - deviation: Stability estimators and confidence intervals
//   - noisegen: Synthetic power-law noise
//   - analysis: Batch runs, reference fixtures and workbook export
//
// # References
//
//   - W. J. Riley, Handbook of Frequency Stability Analysis, NIST SP 1065 (2008)
//   - C. A. Greenhall and W. J. Riley, Uncertainty of Stability Variances Based on Finite Differences (2003)
package stablab
