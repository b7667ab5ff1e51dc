package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"power-sim/internal/model"
)

func TestSummarize_FinalRowPopulationStats(t *testing.T) {
	// 2 time points x 4 replications; only the last row matters.
	prices := mat.NewDense(2, 4, []float64{
		100, 100, 100, 100,
		1, 2, 3, 4,
	})
	s, err := Summarize(prices)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(1.25), s.Std, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)

	m := s.Map()
	assert.Len(t, m, 4)
	assert.Equal(t, s.Mean, m[KeyMean])
	assert.Equal(t, s.Std, m[KeyStd])
	assert.Equal(t, s.Min, m[KeyMin])
	assert.Equal(t, s.Max, m[KeyMax])
}

func TestSummarize_SingleReplicationHasZeroStd(t *testing.T) {
	s, err := Summarize(mat.NewDense(3, 1, []float64{100, 90, 80}))
	require.NoError(t, err)
	assert.Equal(t, 80.0, s.Mean)
	assert.Equal(t, 0.0, s.Std)
}

func TestSummarize_EmptyEnsemble(t *testing.T) {
	_, err := Summarize(&mat.Dense{})
	assert.ErrorIs(t, err, model.ErrEmptyEnsemble)

	_, err = Summarize(nil)
	assert.ErrorIs(t, err, model.ErrEmptyEnsemble)

	g, err := model.NewTimeGrid(1, 0.5)
	require.NoError(t, err)
	_, err = Summarize(model.NewEnsemble(g, 0).Prices)
	assert.ErrorIs(t, err, model.ErrEmptyEnsemble)
}

func TestRankByFinalPrice(t *testing.T) {
	prices := mat.NewDense(2, 4, []float64{
		100, 100, 100, 100,
		90, 120, 90, 110,
	})
	ranked, err := RankByFinalPrice(prices)
	require.NoError(t, err)
	require.Len(t, ranked, 4)
	assert.Equal(t, []int{1, 3, 0, 2}, []int{
		ranked[0].Replication, ranked[1].Replication, ranked[2].Replication, ranked[3].Replication,
	})
	assert.Equal(t, 120.0, ranked[0].FinalPrice)

	_, err = RankByFinalPrice(&mat.Dense{})
	assert.ErrorIs(t, err, model.ErrEmptyEnsemble)
}
