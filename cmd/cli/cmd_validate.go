package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"power-sim/internal/config"
)

func newValidateCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a scenario without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			grid, err := cfg.Inputs().Simulation.Grid()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d grid points, %d paths)\n", path, grid.Len(), cfg.Simulation.NumPaths)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "scenario YAML")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
