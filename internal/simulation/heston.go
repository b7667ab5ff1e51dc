package simulation

import (
	"math"

	"power-sim/internal/model"
	"power-sim/internal/random"
)

// PathGenerator simulates one price/variance path under regime-modulated
// Heston dynamics with jumps. It holds only read-only parameters and may be
// shared between calls; all mutable state lives in Simulate.
type PathGenerator struct {
	Regime model.RegimeParams
	Heston model.HestonParams
	Jump   model.JumpParams
	// Floor is the full-truncation floor applied to variance. Must be > 0.
	Floor float64
}

func NewPathGenerator(in model.Inputs) *PathGenerator {
	return &PathGenerator{
		Regime: in.Regime,
		Heston: in.Heston,
		Jump:   in.Jump,
		Floor:  in.Simulation.Floor(),
	}
}

// Simulate produces one path aligned with grid. It returns the path and the
// number of times the variance floor had to be applied.
//
// Per step the stream is consumed in this fixed order: two standard normals
// (price and variance shocks), one uniform (jump test), and one further
// normal only when a jump occurs. The order is part of the reproducibility
// contract.
//
// Jumps use Bernoulli thinning: at most one jump per step, with probability
// intensity*dt. For coarse steps with high intensity this understates the
// jump frequency of an exact compound-Poisson process.
func (g *PathGenerator) Simulate(grid model.TimeGrid, regimes model.RegimeTrajectory, stream *random.Stream) (model.Path, int) {
	n := grid.Len()
	price := make([]float64, n)
	variance := make([]float64, n)
	if n == 0 {
		return model.Path{Price: price, Variance: variance}, 0
	}
	price[0] = g.Heston.S0
	variance[0] = g.Heston.V0

	floorHits := 0
	for i := 1; i < n; i++ {
		dt := grid.Step(i)
		sqrtDt := math.Sqrt(dt)

		z1 := stream.Normal()
		z2 := stream.Normal()
		dWPrice, dWVol := correlatedIncrements(z1, z2, g.Heston.Rho, sqrtDt)

		vPrev := variance[i-1]
		if vPrev < g.Floor {
			vPrev = g.Floor
			floorHits++
		}
		vNew := vPrev + g.Heston.Kappa*(g.Heston.Theta-vPrev)*dt + g.Heston.SigmaV*math.Sqrt(vPrev)*dWVol
		if vNew < g.Floor {
			vNew = g.Floor
			floorHits++
		}

		jump := 0.0
		if stream.Uniform() < g.Jump.Intensity*dt {
			jump = stream.Gaussian(g.Jump.MeanJump, g.Jump.StdJump)
		}

		mu, volMult := g.Regime.Dynamics(regimes[i])
		logReturn := mu*dt + volMult*math.Sqrt(vNew)*dWPrice + jump

		price[i] = price[i-1] * math.Exp(logReturn)
		variance[i] = vNew
	}
	return model.Path{Price: price, Variance: variance}, floorHits
}

// correlatedIncrements turns two independent standard normals into Brownian
// increments with correlation rho (Cholesky factor of the 2x2 correlation matrix).
func correlatedIncrements(z1, z2, rho, sqrtDt float64) (dWPrice, dWVol float64) {
	dWPrice = sqrtDt * z1
	dWVol = sqrtDt * (rho*z1 + math.Sqrt(1-rho*rho)*z2)
	return dWPrice, dWVol
}
