package analysis

import (
	"fmt"
	"strings"

	"github.com/sartorproj/stablab/deviation"
	"github.com/sartorproj/stablab/stats"
)

// Noise identification strategies accepted by Config.NoiseID.
const (
	NoiseAuto = "auto"
	NoiseLag1 = "lag1"
	NoiseB1   = "b1"
	NoiseNone = "none"
)

// Config holds configuration for a batch run.
type Config struct {
	Estimators []deviation.Kind   // estimators to compute (default: DefaultEstimators)
	Factors    []int              // averaging factors; nil uses each estimator's defaults
	Confidence float64            // confidence level (default: 0.683)
	Method     deviation.CIMethod // "full" or "simple" (default: "full")
	NoiseID    string             // auto, lag1, b1 or none (default: auto)
	Workers    int                // concurrent estimators (default: 4)
	Cache      bool               // share a memoizing noise identifier across estimators
}

// DefaultEstimators returns the estimators computed when none are named.
func DefaultEstimators() []deviation.Kind {
	return []deviation.Kind{
		deviation.KindADEV,
		deviation.KindMDEV,
		deviation.KindHDEV,
		deviation.KindTOTDEV,
		deviation.KindMTOTDEV,
		deviation.KindTDEV,
		deviation.KindPDEV,
		deviation.KindTIE,
		deviation.KindMTIE,
	}
}

// DefaultConfig returns the default batch configuration.
func DefaultConfig() *Config {
	return &Config{
		Estimators: DefaultEstimators(),
		Confidence: deviation.DefaultConfidence,
		Method:     deviation.Full,
		NoiseID:    NoiseAuto,
		Workers:    4,
		Cache:      true,
	}
}

// Validate checks the configuration without running anything.
func (c *Config) Validate() error {
	if len(c.Estimators) == 0 {
		return fmt.Errorf("analysis: no estimators configured")
	}
	for _, k := range c.Estimators {
		if _, err := deviation.Lookup(k); err != nil {
			return fmt.Errorf("analysis: %w", err)
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("analysis: workers must be at least 1, got %d", c.Workers)
	}
	if _, err := NoiseIdentifier(c.NoiseID); err != nil {
		return err
	}
	return nil
}

// ParseEstimators resolves a list of estimator names, accepting aliases.
func ParseEstimators(names []string) ([]deviation.Kind, error) {
	kinds := make([]deviation.Kind, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		k, err := deviation.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("analysis: %w", err)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// NoiseIdentifier returns the identifier named by strategy. The empty
// string selects NoiseAuto.
func NoiseIdentifier(strategy string) (stats.NoiseIdentifier, error) {
	switch strings.ToLower(strategy) {
	case "", NoiseAuto:
		return stats.NewAutoIdentifier(), nil
	case NoiseLag1:
		return stats.NewLag1Identifier(), nil
	case NoiseB1:
		return &stats.B1Identifier{}, nil
	case NoiseNone:
		return stats.UnknownIdentifier{}, nil
	}
	return nil, fmt.Errorf("analysis: unknown noise identification %q", strategy)
}
