package deviation

import (
	"fmt"

	"github.com/sartorproj/stablab/timeseries"
)

// Func is the common signature of every estimator.
type Func func(s *timeseries.Series, opts *Options) (*Result, error)

var registry = map[Kind]Func{
	KindADEV:     ADEV,
	KindMDEV:     MDEV,
	KindHDEV:     HDEV,
	KindMHDEV:    MHDEV,
	KindTOTDEV:   TOTDEV,
	KindMTOTDEV:  MTOTDEV,
	KindHTOTDEV:  HTOTDEV,
	KindMHTOTDEV: MHTOTDEV,
	KindTDEV:     TDEV,
	KindLDEV:     LDEV,
	KindTIE:      TIE,
	KindMTIE:     MTIE,
	KindPDEV:     PDEV,
	KindTHEO1:    THEO1,
}

// Lookup returns the estimator function for kind.
func Lookup(kind Kind) (Func, error) {
	fn, ok := registry[kind]
	if !ok {
		return nil, timeseries.Invalid("estimator", fmt.Sprintf("unknown estimator %q", kind))
	}
	return fn, nil
}

// Compute runs the estimator named by kind.
func Compute(kind Kind, s *timeseries.Series, opts *Options) (*Result, error) {
	fn, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	return fn(s, opts)
}
