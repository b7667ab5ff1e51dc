package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsemble_SetPathAndRead(t *testing.T) {
	g, err := NewTimeGrid(1, 0.5)
	require.NoError(t, err)
	e := NewEnsemble(g, 2)
	require.Equal(t, 2, e.Replications())
	require.Equal(t, 3, e.Steps())

	require.NoError(t, e.SetPath(0, Path{Price: []float64{100, 101, 102}, Variance: []float64{0.04, 0.05, 0.06}}))
	require.NoError(t, e.SetPath(1, Path{Price: []float64{100, 99, 98}, Variance: []float64{0.04, 0.03, 0.02}}))

	assert.Equal(t, 101.0, e.Prices.At(1, 0))
	assert.Equal(t, 0.02, e.Variances.At(2, 1))
	assert.Equal(t, []float64{102, 98}, e.FinalPrices())
	assert.Equal(t, []float64{100, 99, 98}, e.Path(1).Price)
}

func TestEnsemble_SetPathRejectsMismatch(t *testing.T) {
	g, err := NewTimeGrid(1, 0.5)
	require.NoError(t, err)
	e := NewEnsemble(g, 1)
	assert.Error(t, e.SetPath(0, Path{Price: []float64{1, 2}, Variance: []float64{1, 2}}))
	assert.Error(t, e.SetPath(3, Path{Price: []float64{1, 2, 3}, Variance: []float64{1, 2, 3}}))
}

func TestEnsemble_Empty(t *testing.T) {
	g, err := NewTimeGrid(1, 0.5)
	require.NoError(t, err)
	e := NewEnsemble(g, 0)
	assert.Equal(t, 0, e.Replications())
	assert.Nil(t, e.FinalPrices())
	assert.True(t, e.Prices.IsEmpty())
}
