package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/sartorproj/stablab/analysis"
	"github.com/sartorproj/stablab/deviation"
	"github.com/sartorproj/stablab/internal/config"
	"github.com/sartorproj/stablab/internal/logging"
	"github.com/sartorproj/stablab/noisegen"
	"github.com/sartorproj/stablab/stats"
	"github.com/sartorproj/stablab/timeseries"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stablab",
		Short:         "Frequency stability analysis of phase data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	d := config.DefaultConfig()
	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default: stablab.yaml in . or ./configs)")
	pf.Float64("tau0", d.Tau0, "sampling interval in seconds")
	pf.Float64("scale", d.Scale, "multiplier applied to phase values, e.g. 1e-9 for ns")
	pf.Int("column", d.Column, "zero-based phase column")
	pf.Int("max-rows", d.MaxRows, "use only the first n samples (0: all)")
	pf.Float64("confidence", d.Confidence, "confidence level")
	pf.String("ci-method", d.CIMethod, "confidence interval method: full or simple")
	pf.StringSlice("estimators", d.Estimators, "estimators to compute")
	pf.IntSlice("factors", nil, "averaging factors (default: octaves)")
	pf.String("noise-id", d.NoiseID, "noise identification: auto, lag1, b1 or none")
	pf.Int("workers", d.Workers, "estimators computed concurrently")
	pf.StringP("output", "o", "", "output file (default: stdout)")
	pf.String("workbook", "", "also export an .xlsx workbook")
	pf.String("log-level", d.Logging.Level, "log level")
	pf.String("log-format", d.Logging.Format, "log format: json or console")

	root.AddCommand(
		newComputeCmd(),
		newNoiseCmd(),
		newGenerateCmd(),
		newCompareCmd(),
	)
	return root
}

// loadConfig resolves the configuration for cmd and installs its logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}
	log, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	logging.SetGlobal(log)
	return cfg, nil
}

func analyze(cmd *cobra.Command, path string) (*config.Config, *timeseries.Series, *analysis.Report, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	ac, err := cfg.Analysis()
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := timeseries.LoadPhase(path, cfg.LoadOptions())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	report, err := analysis.Run(cmd.Context(), s, ac)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, s, report, nil
}

func newComputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compute <phase-file>",
		Short: "Compute stability estimators and write a JSON fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, report, err := analyze(cmd, args[0])
			if err != nil {
				return err
			}
			fx := analysis.NewFixture(report, s.Values, nil)
			if cfg.Output == "" {
				if err := analysis.WriteFixture(cmd.OutOrStdout(), fx); err != nil {
					return err
				}
			} else {
				if err := analysis.WriteFixtureFile(cfg.Output, fx); err != nil {
					return err
				}
				printSummaries(cmd.OutOrStdout(), report)
			}
			if cfg.Workbook != "" {
				return analysis.WriteWorkbook(cfg.Workbook, report)
			}
			return nil
		},
	}
}

func printSummaries(w io.Writer, r *analysis.Report) {
	fmt.Fprintf(w, "run %s: %d points, tau0 %g s, %s\n", r.ID, r.N, r.Tau0, r.Elapsed)
	for _, s := range r.Summaries() {
		unit := "  "
		if s.Kind.TimeDomain() {
			unit = " s"
		}
		fmt.Fprintf(w, "%-9s %3d points  dev %.3e .. %.3e%s  slope %+.2f\n",
			s.Kind, s.Points, s.MinDev, s.MaxDev, unit, s.Slope)
	}
}

func newNoiseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "noise <phase-file>",
		Short: "Identify the power-law noise type per averaging factor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			id, err := analysis.NoiseIdentifier(cfg.NoiseID)
			if err != nil {
				return err
			}
			s, err := timeseries.LoadPhase(args[0], cfg.LoadOptions())
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			if err := s.Validate(); err != nil {
				return err
			}

			factors := cfg.Factors
			if len(factors) == 0 {
				factors = deviation.DefaultFactors(deviation.KindADEV, s.Len())
			}
			alpha := id.Identify(s.Values, factors, stats.Phase)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%8s %12s %6s %s\n", "m", "tau", "alpha", "noise")
			for i, m := range factors {
				a := "-"
				if !math.IsNaN(alpha[i]) {
					a = fmt.Sprintf("%+.0f", alpha[i])
				}
				fmt.Fprintf(out, "%8d %12g %6s %s\n", m, float64(m)*s.Tau0, a, stats.NoiseName(alpha[i]))
			}
			return nil
		},
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		model string
		n     int
		seed  int64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic power-law noise phase record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			m, err := noisegen.ParseModel(model)
			if err != nil {
				return err
			}
			s, err := noisegen.Generate(m, &noisegen.Config{N: n, Seed: seed, Scale: cfg.Scale, Tau0: cfg.Tau0})
			if err != nil {
				return err
			}
			logging.Global().Info("generated phase record", "model", string(m), "n", n, "seed", seed)
			if cfg.Output == "" {
				return timeseries.SavePhase(cmd.OutOrStdout(), s)
			}
			return timeseries.SavePhaseFile(s, cfg.Output)
		},
	}
	d := noisegen.DefaultConfig()
	cmd.Flags().StringVar(&model, "model", string(noisegen.WhiteFM), "noise model: wpm, fpm, wfm, ffm or rwfm")
	cmd.Flags().IntVar(&n, "n", d.N, "number of phase samples")
	cmd.Flags().Int64Var(&seed, "seed", d.Seed, "random seed")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var rtol float64
	cmd := &cobra.Command{
		Use:   "compare <phase-file> <reference.json>",
		Short: "Compare computed estimators against a reference fixture",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			_, _, report, err := analyze(cmd, args[0])
			if err != nil {
				return err
			}
			cmp, err := analysis.CompareFixture(report, ref)
			if err != nil {
				return err
			}

			failed := 0
			out := cmd.OutOrStdout()
			for _, c := range cmp {
				status := "ok"
				switch {
				case c.Missing:
					status = "not computed"
				case !c.Within(rtol):
					status = "MISMATCH"
					failed++
				}
				fmt.Fprintf(out, "%-9s %3d matched  max rel err %.3e  %s\n", c.Name, c.Matched, c.MaxRelErr, status)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d estimators exceed rtol %g", failed, len(cmp), rtol)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&rtol, "rtol", 1e-6, "relative tolerance")
	return cmd
}
