package deviation

import (
	"fmt"
	"strings"

	"github.com/sartorproj/stablab/timeseries"
)

// Kind names a stability estimator.
type Kind string

const (
	KindADEV     Kind = "adev"
	KindMDEV     Kind = "mdev"
	KindHDEV     Kind = "hdev"
	KindMHDEV    Kind = "mhdev"
	KindTOTDEV   Kind = "totdev"
	KindMTOTDEV  Kind = "mtotdev"
	KindHTOTDEV  Kind = "htotdev"
	KindMHTOTDEV Kind = "mhtotdev"
	KindTDEV     Kind = "tdev"
	KindLDEV     Kind = "ldev"
	KindTIE      Kind = "tie"
	KindMTIE     Kind = "mtie"
	KindPDEV     Kind = "pdev"
	KindTHEO1    Kind = "theo1"
)

var allKinds = []Kind{
	KindADEV, KindMDEV, KindHDEV, KindMHDEV,
	KindTOTDEV, KindMTOTDEV, KindHTOTDEV, KindMHTOTDEV,
	KindTDEV, KindLDEV,
	KindTIE, KindMTIE, KindPDEV, KindTHEO1,
}

// ADEV and HDEV compute the overlapping forms, so the "o" prefixed names
// used by other tools are aliases.
var aliases = map[string]Kind{
	"oadev": KindADEV,
	"ohdev": KindHDEV,
}

// Kinds returns every supported estimator in display order.
func Kinds() []Kind {
	return append([]Kind(nil), allKinds...)
}

// ParseKind resolves an estimator name, case-insensitively.
func ParseKind(name string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if k, ok := aliases[key]; ok {
		return k, nil
	}
	for _, k := range allKinds {
		if string(k) == key {
			return k, nil
		}
	}
	return "", timeseries.Invalid("estimator", fmt.Sprintf("unknown estimator %q", name))
}

// TimeDomain reports whether the estimator is expressed in seconds rather
// than as a dimensionless frequency stability.
func (k Kind) TimeDomain() bool {
	switch k {
	case KindTDEV, KindLDEV, KindTIE, KindMTIE:
		return true
	}
	return false
}

// minDivisor is the point-count multiple of m an estimator needs for its
// default averaging factors.
func (k Kind) minDivisor() int {
	switch k {
	case KindADEV, KindPDEV, KindTIE, KindMTIE:
		return 2
	case KindMDEV, KindTDEV, KindTOTDEV, KindMTOTDEV:
		return 3
	default:
		return 4
	}
}

// theo1MinFactor is the smallest averaging factor Theo1 accepts.
const theo1MinFactor = 10

// DefaultFactors returns the octave-spaced averaging factors used by kind
// for n phase points when none are requested.
func DefaultFactors(kind Kind, n int) []int {
	if kind == KindTHEO1 {
		var ms []int
		for m := theo1MinFactor; m <= n-1; m *= 2 {
			ms = append(ms, m)
		}
		return ms
	}
	return timeseries.DefaultFactors(n, kind.minDivisor())
}
