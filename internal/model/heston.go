package model

import "math"

// HestonParams defines the stochastic-variance diffusion.
// Units:
// - Kappa: mean-reversion speed per unit time
// - Theta, V0: variance of log returns per unit time
// - SigmaV: volatility of variance
// - Rho: correlation between price and variance shocks, [-1, 1]
// - S0: initial price ($/MWh)
type HestonParams struct {
	Kappa  float64
	Theta  float64
	SigmaV float64
	Rho    float64
	V0     float64
	S0     float64
}

func DefaultHestonParams() HestonParams {
	return HestonParams{
		Kappa:  2.0,
		Theta:  0.04,
		SigmaV: 0.5,
		Rho:    -0.5,
		V0:     0.04,
		S0:     100.0,
	}
}

func (p HestonParams) Validate() error {
	if !finitePositive(p.Kappa) {
		return configErr("heston.kappa", "must be > 0, got %v", p.Kappa)
	}
	if !finitePositive(p.Theta) {
		return configErr("heston.theta", "must be > 0, got %v", p.Theta)
	}
	if !finiteNonNegative(p.SigmaV) {
		return configErr("heston.sigma_v", "must be >= 0, got %v", p.SigmaV)
	}
	if math.IsNaN(p.Rho) || p.Rho < -1 || p.Rho > 1 {
		return configErr("heston.rho", "must be in [-1, 1], got %v", p.Rho)
	}
	if !finitePositive(p.V0) {
		return configErr("heston.v0", "must be > 0, got %v", p.V0)
	}
	if !finitePositive(p.S0) {
		return configErr("heston.s0", "must be > 0, got %v", p.S0)
	}
	return nil
}

// FellerSatisfied reports whether 2*kappa*theta >= sigma_v^2. When it does not
// hold, expect the variance floor to trigger more often.
func (p HestonParams) FellerSatisfied() bool {
	return 2*p.Kappa*p.Theta >= p.SigmaV*p.SigmaV
}

// JumpParams defines the jump component. Jump sizes are normal in log-price space.
type JumpParams struct {
	Intensity float64 // jumps per unit time
	MeanJump  float64
	StdJump   float64
}

func DefaultJumpParams() JumpParams {
	return JumpParams{
		Intensity: 3.0,
		MeanJump:  0.08,
		StdJump:   0.25,
	}
}

func (p JumpParams) Validate() error {
	if !finiteNonNegative(p.Intensity) {
		return configErr("jump.intensity", "must be >= 0, got %v", p.Intensity)
	}
	if math.IsNaN(p.MeanJump) || math.IsInf(p.MeanJump, 0) {
		return configErr("jump.mean_jump", "must be finite, got %v", p.MeanJump)
	}
	if !finiteNonNegative(p.StdJump) {
		return configErr("jump.std_jump", "must be >= 0, got %v", p.StdJump)
	}
	return nil
}

// ValidateStep checks that intensity*step stays a valid probability.
func (p JumpParams) ValidateStep(maxStep float64) error {
	if p.Intensity*maxStep > 1 {
		return configErr("jump.intensity", "times step %v is %v, must be <= 1", maxStep, p.Intensity*maxStep)
	}
	return nil
}
