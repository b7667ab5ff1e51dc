package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"power-sim/internal/model"
)

// Keys of SummaryStats.Map. Keep these stable; they are part of the output contract.
const (
	KeyMean = "mean_final_price"
	KeyStd  = "std_final_price"
	KeyMin  = "min_final_price"
	KeyMax  = "max_final_price"
)

// SummaryStats describes the final-time row of a price ensemble.
// Std is the population standard deviation (divides by N).
type SummaryStats struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

func (s SummaryStats) Map() map[string]float64 {
	return map[string]float64{
		KeyMean: s.Mean,
		KeyStd:  s.Std,
		KeyMin:  s.Min,
		KeyMax:  s.Max,
	}
}

// Summarize computes statistics of the last row of prices across replications.
func Summarize(prices *mat.Dense) (SummaryStats, error) {
	if isEmpty(prices) {
		return SummaryStats{}, model.ErrEmptyEnsemble
	}
	rows, _ := prices.Dims()
	final := mat.Row(nil, rows-1, prices)

	mean, std := stat.PopMeanStdDev(final, nil)
	return SummaryStats{
		Mean: mean,
		Std:  std,
		Min:  floats.Min(final),
		Max:  floats.Max(final),
	}, nil
}

func isEmpty(m *mat.Dense) bool {
	return m == nil || m.IsEmpty()
}
