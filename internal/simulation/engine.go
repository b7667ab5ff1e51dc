package simulation

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"power-sim/internal/model"
	"power-sim/internal/random"
)

// Recorder receives run-level measurements. metrics.Recorder implements it.
type Recorder interface {
	ObserveRun(status string, elapsed time.Duration)
	AddPaths(n int)
	AddFloorHits(n int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRun(string, time.Duration) {}
func (nopRecorder) AddPaths(int)                     {}
func (nopRecorder) AddFloorHits(int)                 {}

// Engine is the Monte Carlo driver. It is stateless between runs.
type Engine struct {
	log     zerolog.Logger
	metrics Recorder
}

type Option func(*Engine)

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.metrics = r
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{log: zerolog.Nop(), metrics: nopRecorder{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run validates in, seeds a stream from in.Simulation.Seed and executes the run.
func (e *Engine) Run(in model.Inputs) (*Result, error) {
	return e.runStream(in, random.New(in.Simulation.Seed))
}

// runStream is Run with a caller-owned stream. Validation happens before the
// first draw, so a rejected run leaves the stream untouched.
func (e *Engine) runStream(in model.Inputs, stream *random.Stream) (*Result, error) {
	grid, err := in.Validate()
	if err != nil {
		e.metrics.ObserveRun(StatusRejected, 0)
		return nil, err
	}
	return e.run(in, grid, stream)
}

// RunOnGrid runs on an explicit, possibly non-uniform grid instead of the
// one derived from t_end and dt. t_end and dt are not consulted.
func (e *Engine) RunOnGrid(in model.Inputs, grid model.TimeGrid, stream *random.Stream) (*Result, error) {
	fail := func(err error) (*Result, error) {
		e.metrics.ObserveRun(StatusRejected, 0)
		return nil, err
	}
	if err := in.Regime.Validate(); err != nil {
		return fail(err)
	}
	if err := in.Heston.Validate(); err != nil {
		return fail(err)
	}
	if err := in.Jump.Validate(); err != nil {
		return fail(err)
	}
	if in.Simulation.NumPaths <= 0 {
		return fail(&model.ConfigurationError{Field: "simulation.num_paths", Reason: fmt.Sprintf("must be > 0, got %d", in.Simulation.NumPaths)})
	}
	if err := in.Simulation.ValidateFloor(); err != nil {
		return fail(err)
	}
	if err := in.ValidateGrid(grid); err != nil {
		return fail(err)
	}
	return e.run(in, grid, stream)
}

// run executes one simulation. Every replication shares the same regime
// trajectory and continues the same stream where the previous replication
// stopped, so results depend on replication order.
func (e *Engine) run(in model.Inputs, grid model.TimeGrid, stream *random.Stream) (*Result, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}
	start := time.Now()
	drawsBefore := stream.Draws()

	regimes := SimulateRegimes(grid, in.Regime, stream)
	e.log.Debug().
		Uint64("seed", stream.Seed()).
		Int("steps", grid.Len()).
		Int("transitions", regimes.Transitions()).
		Float64("stressed_share", regimes.Occupancy()).
		Msg("regime trajectory simulated")

	paths := in.Simulation.NumPaths
	ens := model.NewEnsemble(grid, paths)
	gen := NewPathGenerator(in)

	floorHits := 0
	for p := 0; p < paths; p++ {
		path, hits := gen.Simulate(grid, regimes, stream)
		if err := ens.SetPath(p, path); err != nil {
			e.metrics.ObserveRun(StatusFailed, time.Since(start))
			return nil, fmt.Errorf("replication %d: %w", p, err)
		}
		floorHits += hits
	}

	res := &Result{
		Grid:      grid,
		Regimes:   regimes,
		Ensemble:  ens,
		FloorHits: floorHits,
		Draws:     stream.Draws() - drawsBefore,
		Elapsed:   time.Since(start),
	}
	if floorHits > 0 {
		res.Warning = &model.NumericInstabilityWarning{FloorHits: floorHits, Steps: (grid.Len() - 1) * paths}
		e.log.Warn().
			Err(res.Warning).
			Int("floor_hits", floorHits).
			Float64("hit_rate", res.Warning.Rate()).
			Bool("feller", in.Heston.FellerSatisfied()).
			Msg("variance floor applied; consider a smaller step")
	}

	e.metrics.AddPaths(paths)
	e.metrics.AddFloorHits(floorHits)
	e.metrics.ObserveRun(StatusCompleted, res.Elapsed)
	e.log.Info().
		Int("paths", paths).
		Int("steps", grid.Len()).
		Uint64("draws", res.Draws).
		Dur("elapsed", res.Elapsed).
		Msg("simulation completed")
	return res, nil
}
