package model

import "math"

// VarianceFloor is the default full-truncation floor. It must stay strictly
// positive since variance is square-rooted on the next step.
const VarianceFloor = 1e-8

// SimulationParams controls the grid, the replication count and the seed.
type SimulationParams struct {
	TEnd          float64 // horizon in years
	Dt            float64 // requested step in years
	NumPaths      int
	Seed          uint64
	VarianceFloor float64 // 0 means VarianceFloor
}

func DefaultSimulationParams() SimulationParams {
	return SimulationParams{
		TEnd:          1.0,
		Dt:            1.0 / (24 * 365),
		NumPaths:      200,
		Seed:          42,
		VarianceFloor: VarianceFloor,
	}
}

func (p SimulationParams) Validate() error {
	if !finitePositive(p.TEnd) {
		return configErr("simulation.t_end", "must be > 0, got %v", p.TEnd)
	}
	if !finitePositive(p.Dt) {
		return configErr("simulation.dt", "must be > 0, got %v", p.Dt)
	}
	if p.Dt > p.TEnd {
		return configErr("simulation.dt", "must be <= t_end (%v), got %v", p.TEnd, p.Dt)
	}
	if p.NumPaths <= 0 {
		return configErr("simulation.num_paths", "must be > 0, got %d", p.NumPaths)
	}
	return p.ValidateFloor()
}

// ValidateFloor rejects negative and non-finite floors. Zero selects the
// default.
func (p SimulationParams) ValidateFloor() error {
	if p.VarianceFloor < 0 || math.IsNaN(p.VarianceFloor) || math.IsInf(p.VarianceFloor, 0) {
		return configErr("simulation.variance_floor", "must be > 0, got %v", p.VarianceFloor)
	}
	return nil
}

// Floor returns the variance floor in effect.
func (p SimulationParams) Floor() float64 {
	if p.VarianceFloor == 0 {
		return VarianceFloor
	}
	return p.VarianceFloor
}

// GridLen is the number of points Grid would return.
func (p SimulationParams) GridLen() (int, error) {
	return GridLen(p.TEnd, p.Dt)
}

// Grid builds the evenly spaced grid for these parameters.
func (p SimulationParams) Grid() (TimeGrid, error) {
	return NewTimeGrid(p.TEnd, p.Dt)
}
