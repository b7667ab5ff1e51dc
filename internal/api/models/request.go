package models

import "encoding/json"

// SimulationRequest represents the request body for running a simulation
type SimulationRequest struct {
	Scenario string `json:"scenario,omitempty"` // preset name; empty = defaults
	// Overrides uses the scenario field names, e.g.
	// {"heston": {"rho": -0.7}, "simulation": {"num_paths": 50}}.
	Overrides   json.RawMessage `json:"overrides,omitempty"`
	Percentiles []float64       `json:"percentiles,omitempty"`
	IncludeBand bool            `json:"include_band,omitempty"`
}

// EnsembleQuery selects which matrix to download
type EnsembleQuery struct {
	Kind string `form:"kind" binding:"omitempty,oneof=prices variances"` // default: prices
}

// RankedQuery limits the ranking size
type RankedQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"` // default: 10
}

// CompareRequest runs several variations of one base scenario
type CompareRequest struct {
	Scenario    string          `json:"scenario,omitempty"`
	Overrides   json.RawMessage `json:"overrides,omitempty"`
	Percentiles []float64       `json:"percentiles,omitempty"`
	Variations  []Variation     `json:"variations" binding:"required,min=1,max=16,dive"`
}

// Variation defines overrides applied on top of the base
type Variation struct {
	Name      string          `json:"name" binding:"required"`
	Overrides json.RawMessage `json:"overrides,omitempty"`
}
