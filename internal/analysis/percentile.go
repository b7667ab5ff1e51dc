package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"power-sim/internal/model"
)

// ErrInvalidPercentile is returned for levels outside [0, 100].
var ErrInvalidPercentile = errors.New("percentile level must be in [0, 100]")

// DefaultLevels are the bands reported when no levels are requested.
var DefaultLevels = []float64{5, 50, 95}

// PercentileBand holds, for each requested level, one value per grid point.
// Values[k] is aligned with the grid and belongs to Levels[k].
type PercentileBand struct {
	Levels []float64
	Values [][]float64
}

// Series returns the values for level, if it was computed.
func (b *PercentileBand) Series(level float64) ([]float64, bool) {
	for k, l := range b.Levels {
		if l == level {
			return b.Values[k], true
		}
	}
	return nil, false
}

// Map returns the band keyed by Label.
func (b *PercentileBand) Map() map[string][]float64 {
	out := make(map[string][]float64, len(b.Levels))
	for k, l := range b.Levels {
		out[Label(l)] = b.Values[k]
	}
	return out
}

// Label names a level the way output columns do: 5 -> "p5", 2.5 -> "p2.5".
func Label(level float64) string {
	return "p" + strconv.FormatFloat(level, 'f', -1, 64)
}

// Percentiles computes the requested levels across replications at every
// time index, interpolating linearly between order statistics. With no
// levels, DefaultLevels are used.
func Percentiles(prices *mat.Dense, levels ...float64) (*PercentileBand, error) {
	if len(levels) == 0 {
		levels = DefaultLevels
	}
	for _, l := range levels {
		if math.IsNaN(l) || l < 0 || l > 100 {
			return nil, fmt.Errorf("%w: got %v", ErrInvalidPercentile, l)
		}
	}
	if isEmpty(prices) {
		return nil, model.ErrEmptyEnsemble
	}

	rows, cols := prices.Dims()
	band := &PercentileBand{
		Levels: append([]float64(nil), levels...),
		Values: make([][]float64, len(levels)),
	}
	for k := range band.Values {
		band.Values[k] = make([]float64, rows)
	}

	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, prices)
		sort.Float64s(row)
		for k, l := range levels {
			band.Values[k][i] = percentileSorted(row, l/100)
		}
	}
	return band, nil
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
