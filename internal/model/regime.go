package model

import "math"

// Regime is the macro state of the market. Keep these values stable; they
// are written to CSV output as integers.
type Regime uint8

const (
	Calm     Regime = 0
	Stressed Regime = 1
)

func (r Regime) String() string {
	switch r {
	case Calm:
		return "CALM"
	case Stressed:
		return "STRESSED"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether r is one of the two defined states.
func (r Regime) Valid() bool {
	return r == Calm || r == Stressed
}

// RegimeTrajectory holds one regime per grid point, starting in Calm.
type RegimeTrajectory []Regime

// Transitions counts state changes between consecutive points.
func (t RegimeTrajectory) Transitions() int {
	n := 0
	for i := 1; i < len(t); i++ {
		if t[i] != t[i-1] {
			n++
		}
	}
	return n
}

// Occupancy returns the fraction of grid points spent in Stressed.
func (t RegimeTrajectory) Occupancy() float64 {
	if len(t) == 0 {
		return 0
	}
	n := 0
	for _, r := range t {
		if r == Stressed {
			n++
		}
	}
	return float64(n) / float64(len(t))
}

// RegimeParams defines the two-state chain and its coupling to the dynamics.
// Units:
// - Lambda01, Lambda10: transitions per unit time (Calm->Stressed, Stressed->Calm)
// - CalmMu, StressedMu: drift of log price per unit time
// - CalmVolMultiplier, StressedVolMultiplier: scale on sqrt(variance)
type RegimeParams struct {
	Lambda01              float64
	Lambda10              float64
	CalmMu                float64
	StressedMu            float64
	CalmVolMultiplier     float64
	StressedVolMultiplier float64
}

func DefaultRegimeParams() RegimeParams {
	return RegimeParams{
		Lambda01:              0.1,
		Lambda10:              0.3,
		CalmVolMultiplier:     1.0,
		StressedVolMultiplier: 2.5,
	}
}

func (p RegimeParams) Validate() error {
	if !finiteNonNegative(p.Lambda01) {
		return configErr("regime.lambda_01", "must be finite and >= 0, got %v", p.Lambda01)
	}
	if !finiteNonNegative(p.Lambda10) {
		return configErr("regime.lambda_10", "must be finite and >= 0, got %v", p.Lambda10)
	}
	if math.IsNaN(p.CalmMu) || math.IsInf(p.CalmMu, 0) {
		return configErr("regime.calm_mu", "must be finite, got %v", p.CalmMu)
	}
	if math.IsNaN(p.StressedMu) || math.IsInf(p.StressedMu, 0) {
		return configErr("regime.stressed_mu", "must be finite, got %v", p.StressedMu)
	}
	if !finiteNonNegative(p.CalmVolMultiplier) {
		return configErr("regime.calm_vol_multiplier", "must be finite and >= 0, got %v", p.CalmVolMultiplier)
	}
	if !finiteNonNegative(p.StressedVolMultiplier) {
		return configErr("regime.stressed_vol_multiplier", "must be finite and >= 0, got %v", p.StressedVolMultiplier)
	}
	return nil
}

// ValidateStep checks that both intensities remain valid per-step
// probabilities for the widest step of the grid.
func (p RegimeParams) ValidateStep(maxStep float64) error {
	if p.Lambda01*maxStep > 1 {
		return configErr("regime.lambda_01", "times step %v is %v, must be <= 1", maxStep, p.Lambda01*maxStep)
	}
	if p.Lambda10*maxStep > 1 {
		return configErr("regime.lambda_10", "times step %v is %v, must be <= 1", maxStep, p.Lambda10*maxStep)
	}
	return nil
}

// Dynamics returns the drift and volatility multiplier that apply in r.
func (p RegimeParams) Dynamics(r Regime) (mu, volMult float64) {
	if r == Stressed {
		return p.StressedMu, p.StressedVolMultiplier
	}
	return p.CalmMu, p.CalmVolMultiplier
}

// Intensity returns the rate of leaving r.
func (p RegimeParams) Intensity(r Regime) float64 {
	if r == Stressed {
		return p.Lambda10
	}
	return p.Lambda01
}

func finiteNonNegative(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x >= 0
}

func finitePositive(x float64) bool {
	return finiteNonNegative(x) && x > 0
}
