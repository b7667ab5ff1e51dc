package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"power-sim/internal/config"
)

// ErrScenarioNotFound is returned when a preset name has no file.
var ErrScenarioNotFound = errors.New("scenario not found")

// Scenario describes one preset YAML file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Extends     string `json:"extends,omitempty"`
	Path        string `json:"-"`
}

// ScenarioDir returns the preset directory: SCENARIO_DIR if set, otherwise
// ./examples/scenarios.
func ScenarioDir() string {
	if dir := os.Getenv("SCENARIO_DIR"); dir != "" {
		return dir
	}
	return "./examples/scenarios"
}

// ListScenarios loads every *.yaml / *.yml preset in dir, sorted by name.
// Files that fail to parse are skipped and reported in the returned error
// slice so one bad preset does not hide the rest.
func ListScenarios(dir string) ([]Scenario, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read scenario dir: %w", err)}
	}

	var out []Scenario
	var errs []error
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		name, ok := scenarioName(de.Name())
		if !ok {
			continue
		}
		p := filepath.Join(dir, de.Name())
		c, err := config.LoadUnchecked(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, Scenario{Name: name, Description: c.Description, Extends: c.Extends, Path: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, errs
}

// LoadScenario resolves a preset by name inside dir and loads it without
// validation; callers apply overrides and validate afterwards. Names
// containing path separators are rejected.
func LoadScenario(dir, name string) (*config.Config, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("%w: %q", ErrScenarioNotFound, name)
	}
	for _, ext := range []string{".yaml", ".yml"} {
		p := filepath.Join(dir, name+ext)
		if _, err := os.Stat(p); err == nil {
			return config.LoadUnchecked(p)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrScenarioNotFound, name)
}

func scenarioName(file string) (string, bool) {
	for _, ext := range []string{".yaml", ".yml"} {
		if strings.HasSuffix(file, ext) {
			return strings.TrimSuffix(file, ext), true
		}
	}
	return "", false
}
