package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Path is one replication: price and variance aligned with the grid.
type Path struct {
	Price    []float64
	Variance []float64
}

func (p Path) Len() int { return len(p.Price) }

// Ensemble stacks paths as columns of two [time x replication] matrices.
// An ensemble with zero replications carries empty matrices.
type Ensemble struct {
	Times     []float64
	Prices    *mat.Dense
	Variances *mat.Dense
}

// NewEnsemble allocates an ensemble for the grid and replication count.
func NewEnsemble(grid TimeGrid, replications int) *Ensemble {
	e := &Ensemble{
		Times:     grid.Points(),
		Prices:    &mat.Dense{},
		Variances: &mat.Dense{},
	}
	if grid.Len() > 0 && replications > 0 {
		e.Prices = mat.NewDense(grid.Len(), replications, nil)
		e.Variances = mat.NewDense(grid.Len(), replications, nil)
	}
	return e
}

// Replications is the number of columns.
func (e *Ensemble) Replications() int {
	if e == nil || e.Prices == nil || e.Prices.IsEmpty() {
		return 0
	}
	_, c := e.Prices.Dims()
	return c
}

// Steps is the number of grid points.
func (e *Ensemble) Steps() int {
	if e == nil {
		return 0
	}
	return len(e.Times)
}

// SetPath stores p as replication j.
func (e *Ensemble) SetPath(j int, p Path) error {
	if p.Len() != e.Steps() || len(p.Variance) != e.Steps() {
		return fmt.Errorf("path length %d does not match grid length %d", p.Len(), e.Steps())
	}
	if j < 0 || j >= e.Replications() {
		return fmt.Errorf("replication %d out of range [0, %d)", j, e.Replications())
	}
	e.Prices.SetCol(j, p.Price)
	e.Variances.SetCol(j, p.Variance)
	return nil
}

// Path copies replication j out of the ensemble.
func (e *Ensemble) Path(j int) Path {
	return Path{
		Price:    mat.Col(nil, j, e.Prices),
		Variance: mat.Col(nil, j, e.Variances),
	}
}

// FinalPrices returns the last row of the price matrix.
func (e *Ensemble) FinalPrices() []float64 {
	if e.Replications() == 0 {
		return nil
	}
	return mat.Row(nil, e.Steps()-1, e.Prices)
}
