package simulation

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"power-sim/internal/analysis"
	"power-sim/internal/model"
)

// Output file names written by WriteOutputs.
const (
	PricesFile      = "prices.csv"
	VariancesFile   = "variances.csv"
	PercentilesFile = "price_percentiles.csv"
	RegimesFile     = "regimes.csv"
)

// WriteEnsembleCSV writes a [time x replication] matrix with a leading time
// column and one path_<i> column per replication.
func WriteEnsembleCSV(w io.Writer, times []float64, m mat.Matrix) error {
	rows, cols := 0, 0
	if m != nil {
		rows, cols = m.Dims()
	}
	if rows != 0 && rows != len(times) {
		return fmt.Errorf("matrix has %d rows, grid has %d points", rows, len(times))
	}

	cw := csv.NewWriter(w)
	header := make([]string, 0, cols+1)
	header = append(header, "time")
	for j := 0; j < cols; j++ {
		header = append(header, "path_"+strconv.Itoa(j))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, cols+1)
	for i := 0; i < rows; i++ {
		row[0] = fmtFloat(times[i])
		for j := 0; j < cols; j++ {
			row[j+1] = fmtFloat(m.At(i, j))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePercentilesCSV writes one column per percentile level, labelled p<level>.
func WritePercentilesCSV(w io.Writer, times []float64, band *analysis.PercentileBand) error {
	cw := csv.NewWriter(w)
	header := []string{"time"}
	for _, lvl := range band.Levels {
		header = append(header, analysis.Label(lvl))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, t := range times {
		row := make([]string, 0, len(band.Levels)+1)
		row = append(row, fmtFloat(t))
		for k := range band.Levels {
			row = append(row, fmtFloat(band.Values[k][i]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRegimesCSV writes the shared regime trajectory as 0 (calm) / 1 (stressed).
func WriteRegimesCSV(w io.Writer, times []float64, regimes model.RegimeTrajectory) error {
	if len(times) != len(regimes) {
		return fmt.Errorf("regime trajectory has %d points, grid has %d", len(regimes), len(times))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "regime"}); err != nil {
		return err
	}
	for i, t := range times {
		if err := cw.Write([]string{fmtFloat(t), strconv.Itoa(int(regimes[i]))}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Outputs lists the files written by WriteOutputs.
type Outputs struct {
	Prices      string
	Variances   string
	Percentiles string
	Regimes     string
}

// WriteOutputs writes the ensembles, the percentile band and the regime
// trajectory into dir, creating it if needed.
func WriteOutputs(dir string, res *Result, band *analysis.PercentileBand) (Outputs, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Outputs{}, err
	}
	out := Outputs{
		Prices:      filepath.Join(dir, PricesFile),
		Variances:   filepath.Join(dir, VariancesFile),
		Percentiles: filepath.Join(dir, PercentilesFile),
		Regimes:     filepath.Join(dir, RegimesFile),
	}
	times := res.Ensemble.Times
	if err := writeFile(out.Prices, func(w io.Writer) error {
		return WriteEnsembleCSV(w, times, res.Ensemble.Prices)
	}); err != nil {
		return Outputs{}, err
	}
	if err := writeFile(out.Variances, func(w io.Writer) error {
		return WriteEnsembleCSV(w, times, res.Ensemble.Variances)
	}); err != nil {
		return Outputs{}, err
	}
	if err := writeFile(out.Percentiles, func(w io.Writer) error {
		return WritePercentilesCSV(w, times, band)
	}); err != nil {
		return Outputs{}, err
	}
	if err := writeFile(out.Regimes, func(w io.Writer) error {
		return WriteRegimesCSV(w, times, res.Regimes)
	}); err != nil {
		return Outputs{}, err
	}
	return out, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
