package deviation

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/stablab/edf"
	"github.com/sartorproj/stablab/internal/logging"
	"github.com/sartorproj/stablab/timeseries"
)

// ConfidenceIntervals returns a copy of r with EDF and CI computed at the
// given confidence level. r is not modified.
//
// With Full, the EDF comes from the estimator's Greenhall or total-family
// model and the interval from the chi-squared distribution. Points with no
// model fall back to dev ± z·Kn(α)·dev/√neff. With Simple, the EDF is the
// effective sample count and the interval dev ± z·dev/√neff. Lower bounds
// of Gaussian intervals are clamped at zero.
func ConfidenceIntervals(r *Result, level float64, method CIMethod) (*Result, error) {
	if r == nil {
		return nil, timeseries.Invalid("result", "nil result")
	}
	if err := validateLevel(level); err != nil {
		return nil, err
	}
	if err := validateMethod(method); err != nil {
		return nil, err
	}

	out := r.Clone()
	out.Confidence = level
	out.Method = method
	out.EDF = make([]float64, out.Len())
	out.CI = make([][2]float64, out.Len())

	z := distuv.UnitNormal.Quantile(0.5 + level/2)
	a := 1 - level
	log := logging.Global()

	for i := range out.Tau {
		dev := out.Dev[i]
		neff := 0
		if i < len(out.Neff) {
			neff = out.Neff[i]
		}
		alpha := math.NaN()
		if i < len(out.Alpha) {
			alpha = out.Alpha[i]
		}

		if math.IsNaN(dev) || math.IsInf(dev, 0) {
			out.EDF[i] = math.NaN()
			out.CI[i] = [2]float64{math.NaN(), math.NaN()}
			continue
		}

		if method == Simple {
			out.EDF[i] = float64(neff)
			out.CI[i] = gaussianInterval(dev, z, 1, neff)
			continue
		}

		v := EDF(out.Kind, alpha, out.M[i], out.N)
		out.EDF[i] = v
		if math.IsNaN(v) {
			log.Debug("no EDF model, using gaussian interval",
				"estimator", string(out.Kind), "m", out.M[i], "alpha", alpha)
			out.CI[i] = gaussianInterval(dev, z, edf.Kn(alpha), neff)
			continue
		}

		chi := distuv.ChiSquared{K: v}
		out.CI[i] = [2]float64{
			dev * math.Sqrt(v/chi.Quantile(1-a/2)),
			dev * math.Sqrt(v/chi.Quantile(a/2)),
		}
	}
	return out, nil
}

func gaussianInterval(dev, z, kn float64, neff int) [2]float64 {
	if neff <= 0 {
		return [2]float64{math.NaN(), math.NaN()}
	}
	half := z * kn * dev / math.Sqrt(float64(neff))
	return [2]float64{math.Max(0, dev-half), dev + half}
}

// EDF returns the equivalent degrees of freedom of kind at averaging
// factor m over n phase points for noise exponent alpha, or NaN when no
// model applies.
func EDF(kind Kind, alpha float64, m, n int) float64 {
	fm := float64(m)
	switch kind {
	case KindADEV:
		return edf.Calculate(alpha, 2, fm, fm, fm, n)
	case KindMDEV, KindTDEV:
		return edf.Calculate(alpha, 2, fm, 1, fm, n)
	case KindHDEV:
		return edf.Calculate(alpha, 3, fm, fm, fm, n)
	case KindMHDEV, KindLDEV:
		return edf.Calculate(alpha, 3, fm, 1, fm, n)
	case KindTOTDEV:
		return edf.Total(edf.Tot, alpha, m, n)
	case KindMTOTDEV:
		return edf.Total(edf.ModTot, alpha, m, n)
	case KindHTOTDEV:
		if m == 1 {
			return edf.Calculate(alpha, 3, 1, 1, 1, n)
		}
		return edf.Total(edf.HadamardTot, alpha, m, n)
	}
	return math.NaN()
}
