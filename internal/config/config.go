// Package config loads the stablab CLI configuration from stablab.yaml,
// STABLAB_* environment variables, an optional .env file and command-line
// flags, in increasing order of precedence.
package config

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/sartorproj/stablab/analysis"
	"github.com/sartorproj/stablab/deviation"
	"github.com/sartorproj/stablab/internal/logging"
	"github.com/sartorproj/stablab/timeseries"
)

// Config represents the complete CLI configuration.
type Config struct {
	Tau0       float64       `mapstructure:"tau0"`       // sampling interval in seconds
	Scale      float64       `mapstructure:"scale"`      // multiplier applied to loaded phase values
	Column     int           `mapstructure:"column"`     // zero-based phase column
	MaxRows    int           `mapstructure:"max_rows"`   // leading samples kept; 0 keeps all
	Confidence float64       `mapstructure:"confidence"` // confidence level in (0, 1)
	CIMethod   string        `mapstructure:"ci_method"`  // full or simple
	Estimators []string      `mapstructure:"estimators"` // estimator names; aliases accepted
	Factors    []int         `mapstructure:"factors"`    // averaging factors; empty selects defaults
	NoiseID    string        `mapstructure:"noise_id"`   // auto, lag1, b1 or none
	Workers    int           `mapstructure:"workers"`    // concurrent estimators
	Output     string        `mapstructure:"output"`     // fixture JSON path; empty writes stdout
	Workbook   string        `mapstructure:"workbook"`   // optional .xlsx export path
	Logging    LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	names := make([]string, 0, len(analysis.DefaultEstimators()))
	for _, k := range analysis.DefaultEstimators() {
		names = append(names, string(k))
	}
	return &Config{
		Tau0:       1,
		Scale:      1,
		Confidence: deviation.DefaultConfidence,
		CIMethod:   string(deviation.Full),
		Estimators: names,
		NoiseID:    analysis.NoiseAuto,
		Workers:    4,
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := timeseries.ValidateTau0(c.Tau0); err != nil {
		return err
	}
	if c.Scale == 0 || math.IsNaN(c.Scale) || math.IsInf(c.Scale, 0) {
		return fmt.Errorf("invalid scale: %v", c.Scale)
	}
	if c.Column < 0 {
		return fmt.Errorf("invalid column: %d", c.Column)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("invalid max_rows: %d", c.MaxRows)
	}
	if _, err := c.Analysis(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

// Validate validates logging configuration.
func (c *LoggingConfig) Validate() error {
	if _, err := logging.New(c.Level, c.Format, io.Discard); err != nil {
		return err
	}
	switch strings.ToLower(c.Format) {
	case "", "json", "console":
		return nil
	}
	return fmt.Errorf("invalid format: %s", c.Format)
}

// Analysis converts the configuration into a batch run configuration.
func (c *Config) Analysis() (*analysis.Config, error) {
	kinds, err := analysis.ParseEstimators(c.Estimators)
	if err != nil {
		return nil, err
	}
	out := &analysis.Config{
		Estimators: kinds,
		Confidence: c.Confidence,
		Method:     deviation.CIMethod(strings.ToLower(c.CIMethod)),
		NoiseID:    c.NoiseID,
		Workers:    c.Workers,
		Cache:      true,
	}
	if len(c.Factors) > 0 {
		out.Factors = append([]int(nil), c.Factors...)
	}
	if math.IsNaN(c.Confidence) || c.Confidence <= 0 || c.Confidence >= 1 {
		return nil, fmt.Errorf("invalid confidence: %v", c.Confidence)
	}
	switch out.Method {
	case deviation.Full, deviation.Simple:
	default:
		return nil, fmt.Errorf("invalid ci_method: %s", c.CIMethod)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadOptions returns the phase loader options for the configuration.
func (c *Config) LoadOptions() *timeseries.LoadOptions {
	opts := timeseries.DefaultLoadOptions()
	opts.Tau0 = c.Tau0
	opts.Scale = c.Scale
	opts.Column = c.Column
	opts.MaxRows = c.MaxRows
	return opts
}

// Logger builds the logger described by the logging section.
func (c *Config) Logger(w io.Writer) (*logging.Logger, error) {
	return logging.New(c.Logging.Level, strings.ToLower(c.Logging.Format), w)
}
