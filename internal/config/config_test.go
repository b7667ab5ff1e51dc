package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"power-sim/internal/model"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault_MatchesModelDefaults(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	in := c.Inputs()
	want := model.DefaultInputs()
	assert.Equal(t, want.Regime, in.Regime)
	assert.Equal(t, want.Heston, in.Heston)
	assert.Equal(t, want.Jump, in.Jump)
	assert.InDelta(t, want.Simulation.Dt, in.Simulation.Dt, 1e-18)
	assert.Equal(t, want.Simulation.NumPaths, in.Simulation.NumPaths)
	assert.Equal(t, want.Simulation.Seed, in.Simulation.Seed)
	assert.Equal(t, []float64{5, 50, 95}, c.Output.Percentiles)
	assert.Equal(t, "info", c.Logging.Level)
}

func TestResolve_ReturnsInputsAndGrid(t *testing.T) {
	c := Default()
	c.Simulation.TEnd = 0.5
	c.Simulation.Dt = 0.25
	in, grid, err := c.Resolve()
	require.NoError(t, err)
	assert.Equal(t, c.Inputs(), in)
	assert.Equal(t, []float64{0, 0.25, 0.5}, grid.Points())

	c.Heston.Rho = 2
	_, _, err = c.Resolve()
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "s.yaml", `
heston:
  rho: -0.7
simulation:
  num_paths: 10
  seed: 7
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, -0.7, c.Heston.Rho)
	assert.Equal(t, 2.0, c.Heston.Kappa)
	assert.Equal(t, 10, c.Simulation.NumPaths)
	assert.Equal(t, uint64(7), c.Simulation.Seed)
	assert.Equal(t, 3.0, c.Jump.Intensity)
}

func TestLoad_ExplicitZeroIsHonored(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "s.yaml", "jump:\n  intensity: 0\nheston:\n  sigma_v: 0\n")
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Jump.Intensity)
	assert.Equal(t, 0.0, c.Heston.SigmaV)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "s.yaml", "heston:\n  rhoo: 0.1\n")
	_, err := Load(p)
	require.Error(t, err)
}

func TestLoad_Extends(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "regime:\n  lambda_01: 2\nsimulation:\n  num_paths: 5\n")
	p := writeFile(t, dir, "child.yaml", "extends: base.yaml\nsimulation:\n  seed: 9\n")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 2.0, c.Regime.Lambda01)
	assert.Equal(t, 5, c.Simulation.NumPaths)
	assert.Equal(t, uint64(9), c.Simulation.Seed)
	assert.Equal(t, "base.yaml", c.Extends)
}

func TestLoad_ExtendsCycleStops(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "loop.yaml", "extends: loop.yaml\n")
	_, err := LoadUnchecked(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extends chain")
}

func TestValidate_TranslatesToConfigurationError(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(c *Config)
		field string
	}{
		{"rho out of range", func(c *Config) { c.Heston.Rho = 1.2 }, "heston.rho"},
		{"zero kappa", func(c *Config) { c.Heston.Kappa = 0 }, "heston.kappa"},
		{"negative intensity", func(c *Config) { c.Regime.Lambda10 = -1 }, "regime.lambda_10"},
		{"zero paths", func(c *Config) { c.Simulation.NumPaths = 0 }, "simulation.num_paths"},
		{"percentile above 100", func(c *Config) { c.Output.Percentiles = []float64{5, 101} }, "output.percentiles[1]"},
		{"no percentiles", func(c *Config) { c.Output.Percentiles = nil }, "output.percentiles"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"intensity times step above one", func(c *Config) {
			c.Simulation.Dt = 0.5
			c.Jump.Intensity = 3
		}, "jump.intensity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mut(c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrConfiguration))
			var ce *model.ConfigurationError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tc.field, ce.Field)
		})
	}
}

func TestApplyJSON(t *testing.T) {
	c := Default()
	require.NoError(t, c.ApplyJSON([]byte(`{"heston":{"rho":0},"simulation":{"num_paths":3}}`)))
	assert.Equal(t, 0.0, c.Heston.Rho)
	assert.Equal(t, 3, c.Simulation.NumPaths)
	assert.Equal(t, 2.0, c.Heston.Kappa)

	require.NoError(t, c.ApplyJSON(nil))
	require.NoError(t, c.ApplyJSON([]byte("null")))

	err := c.ApplyJSON([]byte(`{"heston":{"nope":1}}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

func TestYAML_RoundTrip(t *testing.T) {
	c := Default()
	c.Heston.Rho = -0.25
	raw, err := c.YAML()
	require.NoError(t, err)

	back, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, c.Inputs(), back.Inputs())
	assert.Equal(t, c.Output, back.Output)
}

func TestClone_IsDeep(t *testing.T) {
	c := Default()
	cp := c.Clone()
	cp.Output.Percentiles[0] = 1
	assert.Equal(t, 5.0, c.Output.Percentiles[0])
}

func TestShippedScenariosAreValid(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, p := range paths {
		c, err := Load(p)
		require.NoError(t, err, p)
		assert.NotEmpty(t, c.Description, p)
	}

	stressed, err := Load(filepath.Join("..", "..", "examples", "scenarios", "stressed.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 2.0, stressed.Regime.Lambda01)
	assert.Equal(t, -0.5, stressed.Heston.Rho)
}
