package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"power-sim/internal/analysis"
	"power-sim/internal/api/models"
	"power-sim/internal/config"
	"power-sim/internal/data"
	"power-sim/internal/model"
	"power-sim/internal/random"
	"power-sim/internal/simulation"
)

// DefaultMaxCells caps replications * grid points per request.
const DefaultMaxCells = 50_000_000

// SimulationHandler handles simulation-related requests
type SimulationHandler struct {
	engine      *simulation.Engine
	cache       *data.ResultCache
	scenarioDir string
	maxCells    int
	log         zerolog.Logger
}

type SimulationHandlerConfig struct {
	Engine      *simulation.Engine
	Cache       *data.ResultCache
	ScenarioDir string
	MaxCells    int
	Logger      zerolog.Logger
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(cfg SimulationHandlerConfig) *SimulationHandler {
	if cfg.Engine == nil {
		cfg.Engine = simulation.New()
	}
	if cfg.MaxCells <= 0 {
		cfg.MaxCells = DefaultMaxCells
	}
	return &SimulationHandler{
		engine:      cfg.Engine,
		cache:       cfg.Cache,
		scenarioDir: cfg.ScenarioDir,
		maxCells:    cfg.MaxCells,
		log:         cfg.Logger,
	}
}

// RunSimulation handles POST /api/v1/simulations
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	entry, cached, err := h.simulate(req.Scenario, req.Overrides, req.Percentiles)
	if err != nil {
		respondRunError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildResponse(entry, req.IncludeBand, cached))
}

// CompareSimulations handles POST /api/v1/simulations/compare
func (h *SimulationHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	base, err := h.buildConfig(req.Scenario, req.Overrides, req.Percentiles)
	if err != nil {
		respondRunError(c, err)
		return
	}

	comparison := make([]models.ComparisonResult, 0, len(req.Variations))
	for _, v := range req.Variations {
		cfg := base.Clone()
		err := cfg.ApplyJSON(v.Overrides)
		var entry *data.Entry
		var cached bool
		if err == nil {
			entry, cached, err = h.run(cfg, req.Scenario)
		}
		if err != nil {
			respondRunError(c, fmt.Errorf("variation %q: %w", v.Name, err))
			return
		}
		resp := buildResponse(entry, false, cached)
		comparison = append(comparison, models.ComparisonResult{
			Name:    v.Name,
			ID:      resp.ID,
			Summary: resp.Summary,
			Final:   resp.Final,
			Regimes: resp.Regimes,
			Warning: resp.Warning,
		})
	}
	c.JSON(http.StatusOK, models.CompareResponse{Comparison: comparison})
}

// simulate builds the scenario, then runs it or answers from the cache.
func (h *SimulationHandler) simulate(scenario string, overrides json.RawMessage, percentiles []float64) (*data.Entry, bool, error) {
	cfg, err := h.buildConfig(scenario, overrides, percentiles)
	if err != nil {
		return nil, false, err
	}
	return h.run(cfg, scenario)
}

func (h *SimulationHandler) run(cfg *config.Config, scenario string) (*data.Entry, bool, error) {
	if err := h.checkSize(cfg.Simulation); err != nil {
		return nil, false, err
	}
	in, grid, err := cfg.Resolve()
	if err != nil {
		return nil, false, err
	}
	levels := cfg.Output.Percentiles

	fingerprint := data.Fingerprint(in, levels)
	if entry, ok := h.cache.Lookup(fingerprint); ok {
		return entry, true, nil
	}

	res, err := h.engine.RunOnGrid(in, grid, random.New(in.Simulation.Seed))
	if err != nil {
		return nil, false, err
	}
	summary, err := analysis.Summarize(res.Ensemble.Prices)
	if err != nil {
		return nil, false, err
	}
	band, err := analysis.Percentiles(res.Ensemble.Prices, levels...)
	if err != nil {
		return nil, false, err
	}

	entry := h.cache.Put(&data.Entry{
		Fingerprint: fingerprint,
		Scenario:    scenario,
		Result:      res,
		Summary:     summary,
		Band:        band,
	})
	h.log.Debug().Str("id", entry.ID).Str("scenario", scenario).Msg("simulation stored")
	return entry, false, nil
}

// checkSize rejects runs above maxCells before any grid is allocated.
// Parameters that fail validation are left for Resolve to report.
func (h *SimulationHandler) checkSize(sim config.SimulationConfig) error {
	if sim.NumPaths <= 0 {
		return nil
	}
	points, err := model.GridLen(sim.TEnd, sim.Dt)
	if err != nil {
		return nil
	}
	if points > h.maxCells/sim.NumPaths {
		return &tooLargeError{cells: float64(points) * float64(sim.NumPaths), limit: h.maxCells}
	}
	return nil
}

// GetSimulation handles GET /api/v1/simulations/:id
func (h *SimulationHandler) GetSimulation(c *gin.Context) {
	id := c.Param("id")
	entry, ok := h.cache.Get(id)
	if !ok {
		respondNotFound(c, id)
		return
	}
	c.JSON(http.StatusOK, buildResponse(entry, c.Query("band") == "true", true))
}

// GetEnsemble handles GET /api/v1/simulations/:id/ensemble
func (h *SimulationHandler) GetEnsemble(c *gin.Context) {
	var q models.EnsembleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	id := c.Param("id")
	entry, ok := h.cache.Get(id)
	if !ok {
		respondNotFound(c, id)
		return
	}

	ens := entry.Result.Ensemble
	matrix, file := ens.Prices, simulation.PricesFile
	if q.Kind == "variances" {
		matrix, file = ens.Variances, simulation.VariancesFile
	}
	writeCSV(c, file, func(w io.Writer) error {
		return simulation.WriteEnsembleCSV(w, ens.Times, matrix)
	})
}

// GetPercentiles handles GET /api/v1/simulations/:id/percentiles
func (h *SimulationHandler) GetPercentiles(c *gin.Context) {
	id := c.Param("id")
	entry, ok := h.cache.Get(id)
	if !ok {
		respondNotFound(c, id)
		return
	}
	writeCSV(c, simulation.PercentilesFile, func(w io.Writer) error {
		return simulation.WritePercentilesCSV(w, entry.Result.Ensemble.Times, entry.Band)
	})
}

// buildConfig resolves the base scenario and overlays the overrides. The
// result is not validated yet.
func (h *SimulationHandler) buildConfig(scenario string, overrides json.RawMessage, percentiles []float64) (*config.Config, error) {
	cfg := config.Default()
	if scenario != "" {
		loaded, err := data.LoadScenario(h.scenarioDir, scenario)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyJSON(overrides); err != nil {
		return nil, err
	}
	if len(percentiles) > 0 {
		cfg.Output.Percentiles = append([]float64(nil), percentiles...)
	}
	return cfg, nil
}

func writeCSV(c *gin.Context, file string, write func(io.Writer) error) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file))
	c.Status(http.StatusOK)
	if err := write(c.Writer); err != nil {
		// Headers are already out; all we can do is stop.
		_ = c.Error(err)
		c.Abort()
	}
}

func buildResponse(e *data.Entry, includeBand, cached bool) models.SimulationResponse {
	res := e.Result
	final := make(map[string]float64, len(e.Band.Levels))
	for k, l := range e.Band.Levels {
		series := e.Band.Values[k]
		final[analysis.Label(l)] = series[len(series)-1]
	}

	resp := models.SimulationResponse{
		ID:           e.ID,
		Status:       simulation.StatusCompleted,
		Scenario:     e.Scenario,
		Cached:       cached,
		CreatedAt:    e.CreatedAt,
		GridPoints:   res.Grid.Len(),
		Replications: res.Ensemble.Replications(),
		Draws:        res.Draws,
		ElapsedMS:    res.Elapsed.Milliseconds(),
		Summary:      e.Summary.Map(),
		Final:        final,
		Regimes: models.RegimeStats{
			Transitions:      res.Regimes.Transitions(),
			StressedFraction: res.Regimes.Occupancy(),
			Initial:          res.Regimes[0].String(),
			Final:            res.Regimes[len(res.Regimes)-1].String(),
		},
	}
	if includeBand {
		resp.Band = &models.PercentileBand{
			Times:  res.Ensemble.Times,
			Series: e.Band.Map(),
		}
	}
	if w := res.Warning; w != nil {
		resp.Warning = &models.InstabilityWarning{
			Code:      "NUMERIC_INSTABILITY",
			Message:   w.Error(),
			FloorHits: w.FloorHits,
			Rate:      w.Rate(),
		}
	}
	return resp
}
