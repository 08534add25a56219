/*
Package deviation computes the Allan-variance family of frequency
stability estimators from phase data.

Every estimator shares one signature:

	r, err := deviation.ADEV(series, &deviation.Options{
		Factors:    []int{1, 2, 4, 8},
		Confidence: 0.95,
	})

and returns a Result whose slices are aligned by averaging factor. Factors
too large for the record are dropped rather than reported as errors.

# Estimators

  - ADEV, MDEV, HDEV, MHDEV: overlapping Allan, modified Allan, Hadamard
    and modified Hadamard deviations.
  - TOTDEV, MTOTDEV, HTOTDEV, MHTOTDEV: the total family, which extends the
    record by reflection to use every sample at long averaging times.
  - TDEV, LDEV: time deviations derived from MDEV and MHDEV.
  - TIE, MTIE: RMS and maximum time interval error.
  - PDEV, THEO1: parabolic deviation and Theo1.

# Confidence intervals

With the Full method the equivalent degrees of freedom come from
Greenhall's algorithm or the total-family tables and the interval from the
chi-squared distribution, using the noise type identified per factor.
Estimators without an EDF model use a Gaussian interval scaled by Kn.
ConfidenceIntervals recomputes intervals for an existing Result at another
level or method.
*/
package deviation
