package simulation

import (
	"power-sim/internal/model"
	"power-sim/internal/random"
)

// SimulateRegimes samples the two-state chain on grid.
//
// The chain starts in Calm. For each step i >= 1 one uniform u is drawn and
// the state flips when u < lambda*dt_i, where lambda is the intensity of
// leaving the current state and dt_i is the actual width of step i. This is
// a first-order approximation of the continuous-time transition probability;
// callers must have validated lambda*dt_i <= 1 (see model.Inputs.Validate).
func SimulateRegimes(grid model.TimeGrid, params model.RegimeParams, stream *random.Stream) model.RegimeTrajectory {
	states := make(model.RegimeTrajectory, grid.Len())
	if grid.Len() == 0 {
		return states
	}
	state := model.Calm
	states[0] = state
	for i := 1; i < grid.Len(); i++ {
		p := params.Intensity(state) * grid.Step(i)
		if stream.Uniform() < p {
			state = flip(state)
		}
		states[i] = state
	}
	return states
}

func flip(r model.Regime) model.Regime {
	if r == model.Calm {
		return model.Stressed
	}
	return model.Calm
}
