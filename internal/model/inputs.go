package model

// Inputs bundles the four parameter groups the engine consumes.
// The engine treats it as an opaque, already-parsed value object.
type Inputs struct {
	Regime     RegimeParams
	Heston     HestonParams
	Jump       JumpParams
	Simulation SimulationParams
}

func DefaultInputs() Inputs {
	return Inputs{
		Regime:     DefaultRegimeParams(),
		Heston:     DefaultHestonParams(),
		Jump:       DefaultJumpParams(),
		Simulation: DefaultSimulationParams(),
	}
}

// Validate checks every group and the step-size-dependent probability
// bounds, and returns the grid the run will use.
func (in Inputs) Validate() (TimeGrid, error) {
	if err := in.Regime.Validate(); err != nil {
		return TimeGrid{}, err
	}
	if err := in.Heston.Validate(); err != nil {
		return TimeGrid{}, err
	}
	if err := in.Jump.Validate(); err != nil {
		return TimeGrid{}, err
	}
	if err := in.Simulation.Validate(); err != nil {
		return TimeGrid{}, err
	}
	grid, err := in.Simulation.Grid()
	if err != nil {
		return TimeGrid{}, err
	}
	if err := in.ValidateGrid(grid); err != nil {
		return TimeGrid{}, err
	}
	return grid, nil
}

// ValidateGrid checks the intensity*dt bounds against an explicit grid.
func (in Inputs) ValidateGrid(grid TimeGrid) error {
	if grid.Len() < 2 {
		return configErr("grid", "needs at least 2 points, got %d", grid.Len())
	}
	maxStep := grid.MaxStep()
	if err := in.Regime.ValidateStep(maxStep); err != nil {
		return err
	}
	return in.Jump.ValidateStep(maxStep)
}
