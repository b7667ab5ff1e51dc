package models

import "time"

// SimulationResponse represents the response from a simulation run
type SimulationResponse struct {
	ID           string              `json:"id"`
	Status       string              `json:"status"`
	Scenario     string              `json:"scenario,omitempty"`
	Cached       bool                `json:"cached"`
	CreatedAt    time.Time           `json:"created_at"`
	GridPoints   int                 `json:"grid_points"`
	Replications int                 `json:"replications"`
	Draws        uint64              `json:"draws"`
	ElapsedMS    int64               `json:"elapsed_ms"`
	Summary      map[string]float64  `json:"summary"`
	Final        map[string]float64  `json:"final_percentiles"`
	Band         *PercentileBand     `json:"band,omitempty"`
	Regimes      RegimeStats         `json:"regimes"`
	Warning      *InstabilityWarning `json:"warning,omitempty"`
}

// PercentileBand is the per-time percentile series
type PercentileBand struct {
	Times  []float64            `json:"times"`
	Series map[string][]float64 `json:"series"`
}

// RegimeStats summarizes the shared regime trajectory
type RegimeStats struct {
	Transitions      int     `json:"transitions"`
	StressedFraction float64 `json:"stressed_fraction"`
	Initial          string  `json:"initial"`
	Final            string  `json:"final"`
}

// InstabilityWarning reports variance flooring
type InstabilityWarning struct {
	Code      string  `json:"code"`
	Message   string  `json:"message"`
	FloorHits int     `json:"floor_hits"`
	Rate      float64 `json:"rate"`
}

// RankedResponse represents replications ordered by final price
type RankedResponse struct {
	ID       string    `json:"id"`
	Rankings []Ranking `json:"rankings"`
}

// Ranking represents one ranked replication
type Ranking struct {
	Rank        int     `json:"rank"`
	Replication int     `json:"replication"`
	FinalPrice  float64 `json:"final_price"`
}

// ScenarioInfo represents a scenario preset
type ScenarioInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Extends     string `json:"extends,omitempty"`
}

// ParameterGroup lists the parameters of one scenario section
type ParameterGroup struct {
	Section     string          `json:"section"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a scenario parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int"
	Unit        string      `json:"unit,omitempty"`
	Description string      `json:"description"`
	Default     interface{} `json:"default"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Name    string              `json:"name"`
	ID      string              `json:"id"`
	Summary map[string]float64  `json:"summary"`
	Final   map[string]float64  `json:"final_percentiles"`
	Regimes RegimeStats         `json:"regimes"`
	Warning *InstabilityWarning `json:"warning,omitempty"`
}
