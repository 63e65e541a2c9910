// Package report writes analysis results as flat numeric tables and JSON
// summaries.
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/chrissnell/flightloads/internal/fatigue"
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatRow(values []float64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = formatFloat(v)
	}
	return out
}

// WriteMatrixCSV writes a count matrix with the X bin centers as the header
// row and the Y bin center leading every row. corner labels the top left cell.
func WriteMatrixCSV(w io.Writer, m *fatigue.CountMatrix, corner string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(append([]string{corner}, formatRow(m.XCenters())...)); err != nil {
		return err
	}
	ys := m.YCenters()
	for i, row := range m.Rows() {
		if err := cw.Write(append([]string{formatFloat(ys[i])}, formatRow(row)...)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteExceedanceCSV writes one row per level: its side of the baseline,
// the level center and the cumulative count
func WriteExceedanceCSV(w io.Writer, p fatigue.LevelCrossingProfile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"side", "level", "count"}); err != nil {
		return err
	}

	// bottom levels are written from the lowest up so the table reads in
	// load order
	for i := len(p.BottomCounts) - 1; i >= 0; i-- {
		if err := cw.Write([]string{"below", formatFloat(p.BottomBins[i]), formatFloat(p.BottomCounts[i])}); err != nil {
			return err
		}
	}
	for i := range p.TopCounts {
		if err := cw.Write([]string{"above", formatFloat(p.TopBins[i]), formatFloat(p.TopCounts[i])}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCyclesCSV writes the cycle table
func WriteCyclesCSV(w io.Writer, cycles fatigue.Cycles) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"mean", "range", "weight", "start", "end"}); err != nil {
		return err
	}
	for _, c := range cycles {
		if err := cw.Write(formatRow([]float64{c.Mean, c.Range, c.Weight, c.Start, c.End})); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
