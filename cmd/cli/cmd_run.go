package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"power-sim/internal/analysis"
	"power-sim/internal/config"
	"power-sim/internal/data"
	"power-sim/internal/simulation"
)

type runFlags struct {
	configPath string
	outDir     string
	paths      int
	seed       uint64
}

func newRunCmd(root *rootFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and write CSV outputs",
		Example: `  # Built-in defaults (200 hourly paths over one year)
  powersim run --out outputs

  # Scenario file with a smaller ensemble and another seed
  powersim run --config examples/scenarios/stressed.yaml --paths 50 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, root, f)
		},
	}
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "scenario YAML (defaults when empty)")
	cmd.Flags().StringVarP(&f.outDir, "out", "o", "", "output directory (overrides output.dir)")
	cmd.Flags().IntVarP(&f.paths, "paths", "n", 0, "number of replications (overrides simulation.num_paths)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (overrides simulation.seed)")
	return cmd
}

func runSimulation(cmd *cobra.Command, root *rootFlags, f *runFlags) error {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.LoadUnchecked(f.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("paths") {
		cfg.Simulation.NumPaths = f.paths
	}
	if cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = f.seed
	}
	if f.outDir != "" {
		cfg.Output.Dir = f.outDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, logCloser, err := loggerFor(cmd, root, cfg.Logging)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	engine := simulation.New(simulation.WithLogger(log))
	res, err := engine.Run(cfg.Inputs())
	if err != nil {
		return err
	}
	summary, err := analysis.Summarize(res.Ensemble.Prices)
	if err != nil {
		return err
	}
	band, err := analysis.Percentiles(res.Ensemble.Prices, cfg.Output.Percentiles...)
	if err != nil {
		return err
	}

	outs, err := simulation.WriteOutputs(cfg.Output.Dir, res, band)
	if err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}
	manifestPath, err := data.SaveManifest(&data.Manifest{
		RunID:       uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Scenario:    scenarioName(f.configPath),
		Seed:        cfg.Simulation.Seed,
		NumPaths:    cfg.Simulation.NumPaths,
		GridPoints:  res.Grid.Len(),
		Draws:       res.Draws,
		FloorHits:   res.FloorHits,
		Transitions: res.Regimes.Transitions(),
		Summary:     summary.Map(),
		Files: []string{
			filepath.Base(outs.Prices),
			filepath.Base(outs.Variances),
			filepath.Base(outs.Percentiles),
			filepath.Base(outs.Regimes),
		},
	}, cfg.Output.Dir)
	if err != nil {
		return err
	}
	log.Info().Str("dir", cfg.Output.Dir).Str("manifest", manifestPath).Msg("outputs written")

	printSummary(cmd, summary.Map())
	if res.Warning != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "warning: %v\n", res.Warning)
	}
	return nil
}

func printSummary(cmd *cobra.Command, m map[string]float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := cmd.OutOrStdout()
	for _, k := range keys {
		fmt.Fprintf(out, "%s: %.6f\n", k, m[k])
	}
}

func scenarioName(path string) string {
	if path == "" {
		return "default"
	}
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
