package model

import "math"

// gridTolerance absorbs representation error in tEnd/dt so that, e.g.,
// tEnd=1 and dt=1/8760 yields 8761 points.
const gridTolerance = 1e-9

// TimeGrid is an immutable, strictly increasing sequence of times starting at 0.
type TimeGrid struct {
	points []float64
}

// MaxGridPoints bounds the length of a grid built from (tEnd, dt).
const MaxGridPoints = 1 << 31

// GridLen returns floor(tEnd/dt)+1 without allocating the grid.
func GridLen(tEnd, dt float64) (int, error) {
	if !finitePositive(tEnd) {
		return 0, configErr("simulation.t_end", "must be > 0, got %v", tEnd)
	}
	if !finitePositive(dt) {
		return 0, configErr("simulation.dt", "must be > 0, got %v", dt)
	}
	steps := math.Floor(tEnd/dt + gridTolerance)
	if steps < 1 {
		return 0, configErr("simulation.dt", "must be <= t_end (%v), got %v", tEnd, dt)
	}
	if steps >= MaxGridPoints {
		return 0, configErr("simulation.dt", "t_end/dt gives more than %d grid points", MaxGridPoints)
	}
	return int(steps) + 1, nil
}

// NewTimeGrid returns floor(tEnd/dt)+1 evenly spaced points from 0 to tEnd.
func NewTimeGrid(tEnd, dt float64) (TimeGrid, error) {
	n, err := GridLen(tEnd, dt)
	if err != nil {
		return TimeGrid{}, err
	}
	steps := n - 1
	points := make([]float64, n)
	step := tEnd / float64(steps)
	for i := range points {
		points[i] = float64(i) * step
	}
	points[n-1] = tEnd
	return TimeGrid{points: points}, nil
}

// NewTimeGridFromPoints builds a possibly non-uniform grid. The points must
// start at 0 and be strictly increasing.
func NewTimeGridFromPoints(points []float64) (TimeGrid, error) {
	if len(points) < 2 {
		return TimeGrid{}, configErr("grid", "needs at least 2 points, got %d", len(points))
	}
	if points[0] != 0 {
		return TimeGrid{}, configErr("grid", "must start at 0, got %v", points[0])
	}
	for i := 1; i < len(points); i++ {
		if !(points[i] > points[i-1]) || math.IsInf(points[i], 0) {
			return TimeGrid{}, configErr("grid", "must be strictly increasing at index %d", i)
		}
	}
	cp := make([]float64, len(points))
	copy(cp, points)
	return TimeGrid{points: cp}, nil
}

func (g TimeGrid) Len() int { return len(g.points) }

func (g TimeGrid) At(i int) float64 { return g.points[i] }

// Step is the width of step i, i.e. t[i]-t[i-1]. Valid for i >= 1.
func (g TimeGrid) Step(i int) float64 { return g.points[i] - g.points[i-1] }

// End is the last grid time.
func (g TimeGrid) End() float64 {
	if len(g.points) == 0 {
		return 0
	}
	return g.points[len(g.points)-1]
}

// MaxStep is the widest spacing between consecutive points.
func (g TimeGrid) MaxStep() float64 {
	m := 0.0
	for i := 1; i < len(g.points); i++ {
		if s := g.Step(i); s > m {
			m = s
		}
	}
	return m
}

// Points returns a copy of the grid times.
func (g TimeGrid) Points() []float64 {
	out := make([]float64, len(g.points))
	copy(out, g.points)
	return out
}
