package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ManifestFile is written next to the CSV outputs of a CLI run.
const ManifestFile = "manifest.json"

// Manifest records what produced a set of output files.
type Manifest struct {
	RunID       string             `json:"run_id"`
	CreatedAt   time.Time          `json:"created_at"`
	Scenario    string             `json:"scenario,omitempty"`
	Seed        uint64             `json:"seed"`
	NumPaths    int                `json:"num_paths"`
	GridPoints  int                `json:"grid_points"`
	Draws       uint64             `json:"draws"`
	FloorHits   int                `json:"floor_hits"`
	Transitions int                `json:"regime_transitions"`
	Summary     map[string]float64 `json:"summary"`
	Files       []string           `json:"files"`
}

// SaveManifest writes m as indented JSON to dir/manifest.json.
func SaveManifest(m *Manifest, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}
	p := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(p, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return p, nil
}

func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
