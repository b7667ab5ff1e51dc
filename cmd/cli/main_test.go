package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"power-sim/internal/config"
	"power-sim/internal/data"
	"power-sim/internal/simulation"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeScenario(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "small.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
simulation:
  t_end: 0.02
  dt: 0.001
  num_paths: 6
  seed: 3
output:
  percentiles: [10, 50, 90]
logging:
  level: warn
`), 0o644))
	return p
}

func TestRun_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	stdout, _, err := execute(t, "run", "--config", writeScenario(t, dir), "--out", out, "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, "mean_final_price:")
	assert.Contains(t, stdout, "std_final_price:")

	for _, f := range []string{
		simulation.PricesFile, simulation.VariancesFile,
		simulation.PercentilesFile, simulation.RegimesFile, data.ManifestFile,
	} {
		assert.FileExists(t, filepath.Join(out, f))
	}

	m, err := data.LoadManifest(filepath.Join(out, data.ManifestFile))
	require.NoError(t, err)
	assert.Equal(t, "small", m.Scenario)
	assert.Equal(t, uint64(3), m.Seed)
	assert.Equal(t, 6, m.NumPaths)
	assert.Equal(t, 21, m.GridPoints)
	assert.Len(t, m.Files, 4)
}

func TestRun_LogsToScenarioFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "run.log")
	cfg := filepath.Join(dir, "logged.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
simulation:
  t_end: 0.01
  dt: 0.001
  num_paths: 2
logging:
  level: info
  format: json
  output: `+logFile+`
`), 0o644))

	_, stderr, err := execute(t, "run", "-c", cfg, "-o", filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.NotContains(t, stderr, "simulation completed")

	raw, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "simulation completed")
}

func TestRun_FlagOverridesAndReproducibility(t *testing.T) {
	dir := t.TempDir()
	cfg := writeScenario(t, dir)

	a, _, err := execute(t, "run", "-c", cfg, "-o", filepath.Join(dir, "a"), "--paths", "4", "--seed", "11")
	require.NoError(t, err)
	b, _, err := execute(t, "run", "-c", cfg, "-o", filepath.Join(dir, "b"), "--paths", "4", "--seed", "11")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	pa, err := os.ReadFile(filepath.Join(dir, "a", simulation.PricesFile))
	require.NoError(t, err)
	pb, err := os.ReadFile(filepath.Join(dir, "b", simulation.PricesFile))
	require.NoError(t, err)
	assert.Equal(t, pa, pb)

	m, err := data.LoadManifest(filepath.Join(dir, "a", data.ManifestFile))
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumPaths)
	assert.Equal(t, uint64(11), m.Seed)
}

func TestRun_RejectsInvalidScenario(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("heston:\n  rho: 2\n"), 0o644))

	_, _, err := execute(t, "run", "--config", p, "--out", filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "heston.rho")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestDefaults_PrintsLoadableYAML(t *testing.T) {
	stdout, _, err := execute(t, "defaults")
	require.NoError(t, err)
	assert.Contains(t, stdout, "lambda_01: 0.1")

	parsed, err := config.Parse([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, config.Default().Inputs(), parsed.Inputs())
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	stdout, _, err := execute(t, "validate", "--config", writeScenario(t, dir))
	require.NoError(t, err)
	assert.Contains(t, stdout, "ok (21 grid points, 6 paths)")

	_, _, err = execute(t, "validate")
	require.Error(t, err)
}
