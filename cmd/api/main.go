package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"power-sim/internal/api"
	"power-sim/internal/api/handlers"
	"power-sim/internal/logging"
)

func main() {
	log, logCloser, err := logging.New(logging.Config{
		Level:  getenv("LOG_LEVEL", "info"),
		Format: getenv("LOG_FORMAT", "json"),
		Output: getenv("LOG_OUTPUT", "stderr"),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logCloser.Close()

	port := getenv("API_PORT", "8080")
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ttl, err := time.ParseDuration(getenv("RESULT_TTL", "1h"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid RESULT_TTL")
	}
	maxCells, err := getenvInt("MAX_CELLS", handlers.DefaultMaxCells)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid MAX_CELLS")
	}
	maxResults, err := getenvInt("MAX_RESULTS", 64)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid MAX_RESULTS")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := api.NewServer(api.Options{
		Logger:      log,
		Registry:    reg,
		ScenarioDir: os.Getenv("SCENARIO_DIR"),
		MaxCells:    maxCells,
		CacheTTL:    ttl,
		MaxEntries:  maxResults,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go srv.Cache.Run(ctx, 5*time.Minute)

	httpSrv := &http.Server{
		Addr:              ":" + port,
		Handler:           srv.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", httpSrv.Addr).Msg("starting API server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getenvInt returns def when key is unset and an error when it is set to
// anything but a positive integer.
func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be > 0, got %d", key, n)
	}
	return n, nil
}
