package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultInputs_Valid(t *testing.T) {
	grid, err := DefaultInputs().Validate()
	require.NoError(t, err)
	assert.Equal(t, 8761, grid.Len())
}

func TestInputs_Validate_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(in *Inputs)
		field string
	}{
		{"correlation above one", func(in *Inputs) { in.Heston.Rho = 1.5 }, "heston.rho"},
		{"correlation below minus one", func(in *Inputs) { in.Heston.Rho = -1.01 }, "heston.rho"},
		{"negative calm intensity", func(in *Inputs) { in.Regime.Lambda01 = -0.1 }, "regime.lambda_01"},
		{"negative stressed intensity", func(in *Inputs) { in.Regime.Lambda10 = -1 }, "regime.lambda_10"},
		{"negative vol of vol", func(in *Inputs) { in.Heston.SigmaV = -0.5 }, "heston.sigma_v"},
		{"zero kappa", func(in *Inputs) { in.Heston.Kappa = 0 }, "heston.kappa"},
		{"zero initial price", func(in *Inputs) { in.Heston.S0 = 0 }, "heston.s0"},
		{"nan initial variance", func(in *Inputs) { in.Heston.V0 = math.NaN() }, "heston.v0"},
		{"negative jump intensity", func(in *Inputs) { in.Jump.Intensity = -3 }, "jump.intensity"},
		{"negative jump std", func(in *Inputs) { in.Jump.StdJump = -0.1 }, "jump.std_jump"},
		{"zero horizon", func(in *Inputs) { in.Simulation.TEnd = 0 }, "simulation.t_end"},
		{"zero step", func(in *Inputs) { in.Simulation.Dt = 0 }, "simulation.dt"},
		{"zero paths", func(in *Inputs) { in.Simulation.NumPaths = 0 }, "simulation.num_paths"},
		{"negative paths", func(in *Inputs) { in.Simulation.NumPaths = -4 }, "simulation.num_paths"},
		{"negative floor", func(in *Inputs) { in.Simulation.VarianceFloor = -1e-8 }, "simulation.variance_floor"},
		{"nan floor", func(in *Inputs) { in.Simulation.VarianceFloor = math.NaN() }, "simulation.variance_floor"},
		{"infinite floor", func(in *Inputs) { in.Simulation.VarianceFloor = math.Inf(1) }, "simulation.variance_floor"},
		{"regime intensity times step above one", func(in *Inputs) {
			in.Simulation.Dt = 0.5
			in.Regime.Lambda01 = 3
		}, "regime.lambda_01"},
		{"jump intensity times step above one", func(in *Inputs) {
			in.Simulation.Dt = 0.5
			in.Jump.Intensity = 2.5
		}, "jump.intensity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := DefaultInputs()
			tc.mut(&in)
			_, err := in.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestInputs_IntensityTimesStepOfExactlyOneIsAllowed(t *testing.T) {
	in := DefaultInputs()
	in.Simulation.TEnd = 1
	in.Simulation.Dt = 0.25
	in.Regime.Lambda01 = 4
	in.Jump.Intensity = 4
	_, err := in.Validate()
	assert.NoError(t, err)
}

func TestRegimeParams_Dynamics(t *testing.T) {
	p := RegimeParams{CalmMu: 0.01, StressedMu: -0.2, CalmVolMultiplier: 1, StressedVolMultiplier: 2.5}
	mu, vm := p.Dynamics(Calm)
	assert.Equal(t, 0.01, mu)
	assert.Equal(t, 1.0, vm)
	mu, vm = p.Dynamics(Stressed)
	assert.Equal(t, -0.2, mu)
	assert.Equal(t, 2.5, vm)
}

func TestRegime_String(t *testing.T) {
	assert.Equal(t, "CALM", Calm.String())
	assert.Equal(t, "STRESSED", Stressed.String())
	assert.False(t, Regime(2).Valid())
}

func TestRegimeTrajectory_Stats(t *testing.T) {
	tr := RegimeTrajectory{Calm, Calm, Stressed, Stressed, Calm}
	assert.Equal(t, 2, tr.Transitions())
	assert.InDelta(t, 0.4, tr.Occupancy(), 1e-12)
}

func TestHestonParams_Feller(t *testing.T) {
	assert.False(t, DefaultHestonParams().FellerSatisfied())
	p := DefaultHestonParams()
	p.SigmaV = 0.3
	assert.True(t, p.FellerSatisfied())
}

func TestNumericInstabilityWarning(t *testing.T) {
	w := &NumericInstabilityWarning{FloorHits: 5, Steps: 1000}
	assert.InDelta(t, 0.005, w.Rate(), 1e-12)
	assert.Contains(t, w.Error(), "5 times")
	var nilWarn *NumericInstabilityWarning
	assert.Equal(t, 0.0, nilWarn.Rate())
}
