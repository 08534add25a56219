// Package edf computes equivalent degrees of freedom for Allan-family
// variance estimates.
//
// Calculate implements Greenhall's general algorithm (Metrologia 2003) for
// variances built from d-th differences of averaged phase:
//
//	// overlapping Allan variance, white FM, m = 16, 10000 points
//	v := edf.Calculate(0, 2, 16, 16, 16, 10000)
//
//	// modified Allan variance
//	v = edf.Greenhall(0, 2, 16, 10000, true, true)
//
// Total, modified total and Hadamard total variances use the linear
// coefficient tables of NIST SP 1065:
//
//	v = edf.Total(edf.Tot, -1, 16, 10000)
//
// Every function returns NaN when no model applies; callers fall back to a
// Gaussian interval scaled by Kn(alpha).
package edf
