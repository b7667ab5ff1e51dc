package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"power-sim/internal/model"
	"power-sim/internal/random"
)

func hourlyYear(t *testing.T) model.TimeGrid {
	t.Helper()
	g, err := model.NewTimeGrid(1.0, 1.0/8760)
	require.NoError(t, err)
	return g
}

func TestSimulateRegimes_ShapeAndStates(t *testing.T) {
	grid := hourlyYear(t)
	params := model.RegimeParams{Lambda01: 0.1, Lambda10: 0.3, CalmVolMultiplier: 1, StressedVolMultiplier: 2.5}
	stream := random.New(42)

	traj := SimulateRegimes(grid, params, stream)
	require.Len(t, traj, 8761)
	assert.Equal(t, model.Calm, traj[0])
	for i, r := range traj {
		require.True(t, r.Valid(), "invalid state at %d", i)
	}
	// One uniform per step.
	assert.Equal(t, uint64(8760), stream.Draws())
}

func TestSimulateRegimes_ZeroIntensityStaysCalm(t *testing.T) {
	traj := SimulateRegimes(hourlyYear(t), model.RegimeParams{}, random.New(1))
	assert.Equal(t, 0, traj.Transitions())
	assert.Equal(t, 0.0, traj.Occupancy())
}

func TestSimulateRegimes_CertainTransitionsAlternate(t *testing.T) {
	grid, err := model.NewTimeGrid(1, 0.25)
	require.NoError(t, err)
	traj := SimulateRegimes(grid, model.RegimeParams{Lambda01: 4, Lambda10: 4}, random.New(9))
	assert.Equal(t, model.RegimeTrajectory{
		model.Calm, model.Stressed, model.Calm, model.Stressed, model.Calm,
	}, traj)
}

func TestSimulateRegimes_UsesActualStepWidth(t *testing.T) {
	// Step 1 has width 0.5, so lambda01*dt = 1 and the flip is certain.
	grid, err := model.NewTimeGridFromPoints([]float64{0, 0.5, 0.6, 0.7})
	require.NoError(t, err)
	traj := SimulateRegimes(grid, model.RegimeParams{Lambda01: 2, Lambda10: 0}, random.New(3))
	assert.Equal(t, model.RegimeTrajectory{model.Calm, model.Stressed, model.Stressed, model.Stressed}, traj)
}

func TestSimulateRegimes_TransitionFrequencyMatchesIntensity(t *testing.T) {
	grid := hourlyYear(t)
	params := model.RegimeParams{Lambda01: 0.1, Lambda10: 0.3}
	dt := grid.Step(1)
	stream := random.New(2024)

	var calmSteps, stressedSteps, up, down int
	for run := 0; run < 3000; run++ {
		traj := SimulateRegimes(grid, params, stream)
		for i := 1; i < len(traj); i++ {
			prev, cur := traj[i-1], traj[i]
			if prev == model.Calm {
				calmSteps++
				if cur == model.Stressed {
					up++
				}
			} else {
				stressedSteps++
				if cur == model.Calm {
					down++
				}
			}
		}
	}

	require.Greater(t, calmSteps, 0)
	upRate := float64(up) / float64(calmSteps)
	assert.InEpsilon(t, params.Lambda01*dt, upRate, 0.35)
	if stressedSteps > 50000 {
		downRate := float64(down) / float64(stressedSteps)
		assert.InEpsilon(t, params.Lambda10*dt, downRate, 0.35)
	}
}
