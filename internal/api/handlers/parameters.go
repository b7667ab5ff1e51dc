package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"power-sim/internal/api/models"
	"power-sim/internal/config"
)

// ParameterHandler describes the scenario parameters
type ParameterHandler struct {
	groups []models.ParameterGroup
}

// NewParameterHandler creates a new parameter handler
func NewParameterHandler() *ParameterHandler {
	return &ParameterHandler{groups: parameterCatalogue(config.Default())}
}

// ListParameters handles GET /api/v1/parameters
func (h *ParameterHandler) ListParameters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"parameters": h.groups})
}

func parameterCatalogue(d *config.Config) []models.ParameterGroup {
	return []models.ParameterGroup{
		{
			Section:     "regime",
			Description: "Two-state Markov chain (CALM / STRESSED) shared by all replications.",
			Parameters: []models.ParameterInfo{
				{Name: "lambda_01", Type: "float", Unit: "1/year", Description: "CALM to STRESSED transition intensity", Default: d.Regime.Lambda01},
				{Name: "lambda_10", Type: "float", Unit: "1/year", Description: "STRESSED to CALM transition intensity", Default: d.Regime.Lambda10},
				{Name: "calm_mu", Type: "float", Unit: "1/year", Description: "Log-price drift in CALM", Default: d.Regime.CalmMu},
				{Name: "stressed_mu", Type: "float", Unit: "1/year", Description: "Log-price drift in STRESSED", Default: d.Regime.StressedMu},
				{Name: "calm_vol_multiplier", Type: "float", Description: "Diffusion scale in CALM", Default: d.Regime.CalmVolMultiplier},
				{Name: "stressed_vol_multiplier", Type: "float", Description: "Diffusion scale in STRESSED", Default: d.Regime.StressedVolMultiplier},
			},
		},
		{
			Section:     "heston",
			Description: "Mean-reverting stochastic variance with correlated price shocks.",
			Parameters: []models.ParameterInfo{
				{Name: "kappa", Type: "float", Unit: "1/year", Description: "Variance mean-reversion speed", Default: d.Heston.Kappa},
				{Name: "theta", Type: "float", Description: "Long-run variance", Default: d.Heston.Theta},
				{Name: "sigma_v", Type: "float", Description: "Volatility of variance", Default: d.Heston.SigmaV},
				{Name: "rho", Type: "float", Description: "Correlation of price and variance shocks, in [-1, 1]", Default: d.Heston.Rho},
				{Name: "v0", Type: "float", Description: "Initial variance", Default: d.Heston.V0},
				{Name: "s0", Type: "float", Unit: "price", Description: "Initial price", Default: d.Heston.S0},
			},
		},
		{
			Section:     "jump",
			Description: "Normally distributed log-price jumps, at most one per step.",
			Parameters: []models.ParameterInfo{
				{Name: "intensity", Type: "float", Unit: "1/year", Description: "Jump arrival intensity", Default: d.Jump.Intensity},
				{Name: "mean_jump", Type: "float", Description: "Mean log jump size", Default: d.Jump.MeanJump},
				{Name: "std_jump", Type: "float", Description: "Std of log jump size", Default: d.Jump.StdJump},
			},
		},
		{
			Section:     "simulation",
			Description: "Grid, ensemble size and random seed.",
			Parameters: []models.ParameterInfo{
				{Name: "t_end", Type: "float", Unit: "year", Description: "Horizon", Default: d.Simulation.TEnd},
				{Name: "dt", Type: "float", Unit: "year", Description: "Step size (1/8760 = hourly)", Default: d.Simulation.Dt},
				{Name: "num_paths", Type: "int", Description: "Number of replications", Default: d.Simulation.NumPaths},
				{Name: "seed", Type: "int", Description: "Seed of the shared random stream", Default: d.Simulation.Seed},
				{Name: "variance_floor", Type: "float", Description: "Lower bound applied to the variance", Default: d.Simulation.VarianceFloor},
			},
		},
	}
}
