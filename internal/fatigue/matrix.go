package fatigue

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// BinEdges returns floor(min) .. ceil(max)+binSize stepped by binSize, the
// same sequence numpy.arange produces. At least one bin is always returned
// and the last edge is never below max.
func BinEdges(values []float64, binSize float64) []float64 {
	if len(values) == 0 || !(binSize > 0) {
		return nil
	}

	lo := math.Floor(floats.Min(values))
	hi := math.Ceil(floats.Max(values)) + binSize
	n := int(math.Ceil((hi - lo) / binSize))
	if n < 2 {
		n = 2
	}
	if lo+float64(n-1)*binSize < floats.Max(values) {
		n++
	}

	edges := make([]float64, n)
	for i := range edges {
		edges[i] = lo + float64(i)*binSize
	}
	return edges
}

// Digitize returns the bin of v for right-closed intervals
// (edges[i], edges[i+1]]. A value on an edge falls into the lower bin;
// values at or below the first edge go to bin 0 and values past the last
// edge go to the last bin.
func Digitize(v float64, edges []float64) int {
	last := len(edges) - 2
	if last < 0 {
		return 0
	}
	// SearchFloat64s counts the edges strictly below v
	i := sort.SearchFloat64s(edges, v) - 1
	if i < 0 {
		return 0
	}
	if i > last {
		return last
	}
	return i
}

// BuildMatrix bins weights by two parallel value columns. xs, ys and
// weights must have the same length. Rows of the result follow ys.
func BuildMatrix(xs, ys, weights []float64, xBinSize, yBinSize float64) CountMatrix {
	if len(xs) == 0 {
		return CountMatrix{}
	}

	m := CountMatrix{
		XEdges: BinEdges(xs, xBinSize),
		YEdges: BinEdges(ys, yBinSize),
	}
	m.Counts.ReuseAs(len(m.YEdges)-1, len(m.XEdges)-1)
	m.Counts.Zero()

	for i := range xs {
		r := Digitize(ys[i], m.YEdges)
		c := Digitize(xs[i], m.XEdges)
		m.Counts.Set(r, c, m.Counts.At(r, c)+weights[i])
	}
	return m
}

// MeanRangeMatrix bins cycle weight by mean (columns) and range (rows)
func MeanRangeMatrix(cycles Cycles, meanBinSize, rangeBinSize float64) CountMatrix {
	return BuildMatrix(cycles.Means(), cycles.Ranges(), cycles.Weights(), meanBinSize, rangeBinSize)
}

// FromToMatrix bins cycle weight by start value ("from", columns) and end
// value ("to", rows).
func FromToMatrix(cycles Cycles, fromBinSize, toBinSize float64) CountMatrix {
	return BuildMatrix(cycles.Starts(), cycles.Ends(), cycles.Weights(), fromBinSize, toBinSize)
}

// PeakValleyMatrix bins cycle weight by valley ("from", columns) and peak
// ("to", rows).
func PeakValleyMatrix(cycles Cycles, valleyBinSize, peakBinSize float64) CountMatrix {
	return BuildMatrix(cycles.Valleys(), cycles.Peaks(), cycles.Weights(), valleyBinSize, peakBinSize)
}

// denseLike returns a zeroed matrix with the shape of m, or nil for an empty one
func denseLike(m *CountMatrix) *mat.Dense {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil
	}
	return mat.NewDense(r, c, nil)
}
