package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	mstats "github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sartorproj/stablab/deviation"
	"github.com/sartorproj/stablab/internal/logging"
	"github.com/sartorproj/stablab/noisegen"
	"github.com/sartorproj/stablab/stats"
	"github.com/sartorproj/stablab/timeseries"
)

// Report holds the results of a batch run over one phase series.
type Report struct {
	ID       string
	Dataset  string
	N        int
	Tau0     float64
	Order    []deviation.Kind // estimators in the order they were requested
	Results  map[deviation.Kind]*deviation.Result
	Elapsed  time.Duration
	Finished time.Time
}

// Result returns the result for kind, or nil.
func (r *Report) Result(kind deviation.Kind) *deviation.Result {
	return r.Results[kind]
}

// Summary condenses one estimator's curve.
type Summary struct {
	Kind   deviation.Kind
	Points int
	MinDev float64
	MaxDev float64
	Slope  float64 // log-log slope of dev against tau
}

// Summaries returns one Summary per estimator in report order.
func (r *Report) Summaries() []Summary {
	out := make([]Summary, 0, len(r.Order))
	for _, k := range r.Order {
		res := r.Results[k]
		if res == nil {
			continue
		}
		s := Summary{Kind: k, Points: res.Len()}
		var err error
		if s.MinDev, err = mstats.Min(res.Dev); err != nil {
			s.MinDev = math.NaN()
		}
		if s.MaxDev, err = mstats.Max(res.Dev); err != nil {
			s.MaxDev = math.NaN()
		}
		s.Slope = noisegen.Slope(res.Tau, res.Dev)
		out = append(out, s)
	}
	return out
}

// Run computes every configured estimator over s. At most cfg.Workers
// estimators run at once; the first failure cancels the rest.
func Run(ctx context.Context, s *timeseries.Series, cfg *Config) (*Report, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	noise, err := NoiseIdentifier(cfg.NoiseID)
	if err != nil {
		return nil, err
	}
	if cfg.Cache {
		noise = stats.NewCachedIdentifier(noise)
	}
	opts := &deviation.Options{
		Factors:    cfg.Factors,
		Confidence: cfg.Confidence,
		Method:     cfg.Method,
		Noise:      noise,
	}

	report := &Report{
		ID:      uuid.NewString(),
		Dataset: s.Name,
		N:       s.Len(),
		Tau0:    s.Tau0,
		Results: make(map[deviation.Kind]*deviation.Result, len(cfg.Estimators)),
	}
	log := logging.Global().With("run", report.ID)
	log.Info("analysis started", "dataset", s.Name, "n", s.Len(), "estimators", len(cfg.Estimators))
	start := time.Now()

	results := make([]*deviation.Result, len(cfg.Estimators))
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range cfg.Estimators {
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			if err := gctx.Err(); err != nil {
				return err
			}
			t0 := time.Now()
			res, err := deviation.Compute(kind, s, opts)
			if err != nil {
				return fmt.Errorf("analysis: %s: %w", kind, err)
			}
			log.Info("estimator finished", "estimator", string(kind),
				"points", res.Len(), "elapsed", time.Since(t0).String())
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("analysis failed", "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, kind := range cfg.Estimators {
		if _, dup := report.Results[kind]; dup {
			continue
		}
		report.Order = append(report.Order, kind)
		report.Results[kind] = results[i]
	}
	report.Elapsed = time.Since(start)
	report.Finished = time.Now().UTC()
	log.Info("analysis finished", "elapsed", report.Elapsed.String())
	return report, nil
}
