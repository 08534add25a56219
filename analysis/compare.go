package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/sartorproj/stablab/deviation"
	"github.com/sartorproj/stablab/internal/logging"
)

// tauMatch is the relative tolerance for pairing τ values.
const tauMatch = 1e-9

// Comparison reports how one estimator agrees with a reference curve.
type Comparison struct {
	Name      string // estimator name as spelled in the reference
	Kind      deviation.Kind
	Matched   int     // points with equal τ on both sides
	MaxRelErr float64 // max |dev - ref| / |ref| over matched points
	Missing   bool    // the report has no result for this estimator
}

// Within reports whether every matched point agrees to rtol.
func (c Comparison) Within(rtol float64) bool {
	return !c.Missing && c.Matched > 0 && c.MaxRelErr <= rtol
}

// CompareFixture compares r against a reference fixture in the JSON
// layout written by WriteFixture. Estimators are matched by name,
// accepting aliases such as "oadev"; unknown names are skipped. Reference
// points that are null are ignored.
func CompareFixture(r *Report, reference []byte) ([]Comparison, error) {
	if !gjson.ValidBytes(reference) {
		return nil, fmt.Errorf("analysis: reference is not valid JSON")
	}
	results := gjson.GetBytes(reference, "results")
	if !results.IsObject() {
		return nil, fmt.Errorf("analysis: reference has no results object")
	}

	log := logging.Global()
	var out []Comparison
	results.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		kind, err := deviation.ParseKind(name)
		if err != nil {
			log.Debug("skipping unknown reference estimator", "name", name)
			return true
		}
		c := Comparison{Name: name, Kind: kind}
		res := r.Result(kind)
		if res == nil {
			c.Missing = true
			out = append(out, c)
			return true
		}

		tau := value.Get("tau").Array()
		dev := value.Get("dev").Array()
		for i := 0; i < len(tau) && i < len(dev); i++ {
			if dev[i].Type != gjson.Number || tau[i].Type != gjson.Number {
				continue
			}
			j := indexOfTau(res.Tau, tau[i].Float())
			if j < 0 || math.IsNaN(res.Dev[j]) {
				continue
			}
			ref := dev[i].Float()
			c.Matched++
			if e := relErr(res.Dev[j], ref); e > c.MaxRelErr {
				c.MaxRelErr = e
			}
		}
		out = append(out, c)
		return true
	})

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func indexOfTau(taus []float64, t float64) int {
	for i, v := range taus {
		if math.Abs(v-t) <= tauMatch*math.Max(math.Abs(t), 1) {
			return i
		}
	}
	return -1
}

func relErr(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}
