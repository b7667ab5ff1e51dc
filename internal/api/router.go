// Package api wires the HTTP handlers, middleware and metrics endpoint into
// a gin engine.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"power-sim/internal/api/handlers"
	"power-sim/internal/api/middleware"
	"power-sim/internal/data"
	"power-sim/internal/metrics"
	"power-sim/internal/simulation"
)

type Options struct {
	Logger      zerolog.Logger
	Registry    *prometheus.Registry
	ScenarioDir string
	MaxCells    int
	CacheTTL    time.Duration
	MaxEntries  int
	// CORSOrigins overrides CORS_ORIGINS when non-empty.
	CORSOrigins []string
}

// Server bundles the router with the state it owns.
type Server struct {
	Router *gin.Engine
	Cache  *data.ResultCache
}

func NewServer(opts Options) *Server {
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.ScenarioDir == "" {
		opts.ScenarioDir = data.ScenarioDir()
	}
	rec := metrics.New(opts.Registry)
	cache := data.NewResultCache(opts.CacheTTL, opts.MaxEntries)
	engine := simulation.New(
		simulation.WithLogger(opts.Logger),
		simulation.WithRecorder(rec),
	)

	router := gin.New()
	if len(opts.CORSOrigins) > 0 {
		router.Use(middleware.CORSWithOrigins(opts.CORSOrigins))
	} else {
		router.Use(middleware.CORS())
	}
	router.Use(middleware.Logger(opts.Logger, rec))
	router.Use(middleware.ErrorHandler(opts.Logger))

	simHandler := handlers.NewSimulationHandler(handlers.SimulationHandlerConfig{
		Engine:      engine,
		Cache:       cache,
		ScenarioDir: opts.ScenarioDir,
		MaxCells:    opts.MaxCells,
		Logger:      opts.Logger,
	})
	scenarioHandler := handlers.NewScenarioHandler(opts.ScenarioDir, opts.Logger)
	paramHandler := handlers.NewParameterHandler()
	rankHandler := handlers.NewRankHandler(cache)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cached_results": cache.Len()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/parameters", paramHandler.ListParameters)
		v1.GET("/scenarios", scenarioHandler.ListScenarios)

		v1.POST("/simulations", simHandler.RunSimulation)
		v1.POST("/simulations/compare", simHandler.CompareSimulations)
		v1.GET("/simulations/:id", simHandler.GetSimulation)
		v1.GET("/simulations/:id/ensemble", simHandler.GetEnsemble)
		v1.GET("/simulations/:id/percentiles", simHandler.GetPercentiles)
		v1.GET("/simulations/:id/ranked", rankHandler.RankReplications)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})

	return &Server{Router: router, Cache: cache}
}
