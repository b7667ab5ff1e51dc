package analysis

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"power-sim/internal/model"
)

// RankedPath identifies one replication by its final price.
type RankedPath struct {
	Replication int
	FinalPrice  float64
}

// RankByFinalPrice orders replications by final price, highest first. Ties
// keep replication order. Plotting collaborators use it to pick
// representative sample paths.
func RankByFinalPrice(prices *mat.Dense) ([]RankedPath, error) {
	if isEmpty(prices) {
		return nil, model.ErrEmptyEnsemble
	}
	rows, cols := prices.Dims()
	out := make([]RankedPath, cols)
	for j := 0; j < cols; j++ {
		out[j] = RankedPath{Replication: j, FinalPrice: prices.At(rows-1, j)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinalPrice > out[j].FinalPrice
	})
	return out, nil
}
