package simulation

import (
	"time"

	"power-sim/internal/model"
)

// Run statuses reported to the Recorder.
const (
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
	StatusFailed    = "failed"
)

// Result is the primary artifact of a run.
type Result struct {
	Grid     model.TimeGrid
	Regimes  model.RegimeTrajectory
	Ensemble *model.Ensemble

	// FloorHits counts variance flooring across all replications.
	FloorHits int
	// Warning is non-nil when FloorHits > 0.
	Warning *model.NumericInstabilityWarning

	// Draws is the number of variates consumed by this run.
	Draws   uint64
	Elapsed time.Duration
}
