// Package fatigue implements the load-spectrum pipeline: reversal detection,
// racetrack filtering, rainflow counting, count matrices, level-crossing
// (g-exceedance) curves and Miner's-rule damage accumulation.
package fatigue

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sample is a single load measurement
type Sample struct {
	Index int
	Time  float64 // seconds from the first sample
	Value float64
}

// Signal is an ordered, immutable load history
type Signal struct {
	Samples []Sample
}

// NewSignal builds a Signal from parallel value and time slices.
// times may be nil, in which case the sample index is used as time.
func NewSignal(values, times []float64) (*Signal, error) {
	if times != nil && len(times) != len(values) {
		return nil, &MalformedSignalError{Reason: "time and value columns differ in length"}
	}

	s := &Signal{Samples: make([]Sample, len(values))}
	for i, v := range values {
		t := float64(i)
		if times != nil {
			t = times[i]
			if i > 0 && t < times[i-1] {
				return nil, &MalformedSignalError{Reason: "time is decreasing", Index: i}
			}
		}
		s.Samples[i] = Sample{Index: i, Time: t, Value: v}
	}
	return s, nil
}

// Values returns the load column
func (s *Signal) Values() []float64 {
	out := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		out[i] = smp.Value
	}
	return out
}

// Len returns the number of samples
func (s *Signal) Len() int {
	return len(s.Samples)
}

// Validate fails with a MalformedSignalError when the signal has fewer than
// two samples or contains NaN/Inf values.
func (s *Signal) Validate() error {
	if len(s.Samples) < 2 {
		return &MalformedSignalError{Reason: "at least 2 samples are required", Index: len(s.Samples)}
	}
	for _, smp := range s.Samples {
		if math.IsNaN(smp.Value) || math.IsInf(smp.Value, 0) {
			return &MalformedSignalError{Reason: "non-finite load value", Index: smp.Index}
		}
	}
	return nil
}

// Reversal is a local extremum of the signal. Index refers to the original sample.
type Reversal struct {
	Index int
	Value float64
}

// Cycle is a closed (or half) load loop produced by rainflow counting
type Cycle struct {
	Mean   float64 `json:"mean"`
	Range  float64 `json:"range"`
	Weight float64 `json:"weight"` // 1.0 full cycle, 0.5 half cycle
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
}

// Peak returns the upper turning value of the cycle
func (c Cycle) Peak() float64 {
	return c.Mean + c.Range/2
}

// Valley returns the lower turning value of the cycle
func (c Cycle) Valley() float64 {
	return c.Mean - c.Range/2
}

func newCycle(from, to, weight float64) Cycle {
	return Cycle{
		Mean:   (from + to) / 2,
		Range:  math.Abs(from - to),
		Weight: weight,
		Start:  from,
		End:    to,
	}
}

// Cycles is a materialized cycle table
type Cycles []Cycle

// TotalWeight sums the cycle weights
func (cs Cycles) TotalWeight() float64 {
	total := 0.0
	for _, c := range cs {
		total += c.Weight
	}
	return total
}

func (cs Cycles) column(f func(Cycle) float64) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = f(c)
	}
	return out
}

func (cs Cycles) Means() []float64   { return cs.column(func(c Cycle) float64 { return c.Mean }) }
func (cs Cycles) Ranges() []float64  { return cs.column(func(c Cycle) float64 { return c.Range }) }
func (cs Cycles) Weights() []float64 { return cs.column(func(c Cycle) float64 { return c.Weight }) }
func (cs Cycles) Starts() []float64  { return cs.column(func(c Cycle) float64 { return c.Start }) }
func (cs Cycles) Ends() []float64    { return cs.column(func(c Cycle) float64 { return c.End }) }
func (cs Cycles) Peaks() []float64   { return cs.column(Cycle.Peak) }
func (cs Cycles) Valleys() []float64 { return cs.column(Cycle.Valley) }

// CountMatrix is a 2D histogram of cycle weight. Rows index the Y bins and
// columns index the X bins, so Counts has shape (len(YEdges)-1, len(XEdges)-1).
// An empty matrix has no edges and a zero-value Counts.
type CountMatrix struct {
	Counts mat.Dense
	XEdges []float64
	YEdges []float64
}

// Dims returns the number of Y bins and X bins
func (m *CountMatrix) Dims() (int, int) {
	if m.IsEmpty() {
		return 0, 0
	}
	return m.Counts.Dims()
}

// IsEmpty reports whether the matrix has no cells
func (m *CountMatrix) IsEmpty() bool {
	return m.Counts.IsEmpty()
}

// At returns the weight stored in row r (Y bin) and column c (X bin)
func (m *CountMatrix) At(r, c int) float64 {
	return m.Counts.At(r, c)
}

// Total returns the sum of all cells
func (m *CountMatrix) Total() float64 {
	if m.IsEmpty() {
		return 0
	}
	return mat.Sum(&m.Counts)
}

// XCenters returns the midpoints of the X bins
func (m *CountMatrix) XCenters() []float64 {
	return binCenters(m.XEdges)
}

// YCenters returns the midpoints of the Y bins
func (m *CountMatrix) YCenters() []float64 {
	return binCenters(m.YEdges)
}

// Rows returns the cells as a row-major slice of slices
func (m *CountMatrix) Rows() [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, &m.Counts)
	}
	return out
}

func binCenters(edges []float64) []float64 {
	if len(edges) < 2 {
		return nil
	}
	out := make([]float64, len(edges)-1)
	for i := range out {
		out[i] = (edges[i] + edges[i+1]) / 2
	}
	return out
}

// LevelCrossingProfile holds the cumulative exceedance counts above and
// below the baseline. Index 0 is the level closest to the baseline.
type LevelCrossingProfile struct {
	Baseline     float64   `json:"baseline"`
	LevelWidth   float64   `json:"level_width"`
	TopBins      []float64 `json:"top_bins"`
	BottomBins   []float64 `json:"bottom_bins"`
	TopCounts    []float64 `json:"top_counts"`
	BottomCounts []float64 `json:"bottom_counts"`
}

// MaterialCoefficients are the S-N curve parameters of one material/condition
type MaterialCoefficients struct {
	A float64 `json:"a" yaml:"a"`
	B float64 `json:"b" yaml:"b"`
	C float64 `json:"c" yaml:"c"`
	D float64 `json:"d" yaml:"d"`
}
