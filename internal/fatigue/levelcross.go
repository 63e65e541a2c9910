package fatigue

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// LevelCrossings builds the cumulative exceedance profile of the cycle peaks
// and valleys around baseline. Every peak and every valley adds the cycle
// weight to each level between the baseline and itself, so counts never
// increase with distance from the baseline.
//
// The number of levels above the baseline is ceil((maxPeak-baseline)/width),
// plus one when that distance is an exact multiple of width so a value on a
// border still gets its own terminal level. Below the baseline the same rule
// is applied with floor to the smallest valley.
func LevelCrossings(cycles Cycles, levelWidth, baseline float64) LevelCrossingProfile {
	p := LevelCrossingProfile{
		Baseline:     baseline,
		LevelWidth:   levelWidth,
		TopBins:      []float64{},
		BottomBins:   []float64{},
		TopCounts:    []float64{},
		BottomCounts: []float64{},
	}
	if len(cycles) == 0 || !(levelWidth > 0) {
		return p
	}

	peaks, valleys := cycles.Peaks(), cycles.Valleys()
	p = p.Pad(topLevels(floats.Max(peaks)-baseline, levelWidth), bottomLevels(floats.Min(valleys)-baseline, levelWidth))

	for i, c := range cycles {
		p.cross(peaks[i], c.Weight)
		p.cross(valleys[i], c.Weight)
	}
	return p
}

func topLevels(dist, width float64) int {
	if dist < 0 {
		return 0
	}
	n := math.Ceil(dist / width)
	if math.Mod(dist, width) == 0 {
		n++
	}
	return int(n)
}

func bottomLevels(dist, width float64) int {
	if dist >= 0 {
		return 0
	}
	n := math.Abs(math.Floor(dist / width))
	if math.Mod(dist, width) == 0 {
		n++
	}
	return int(n)
}

// cross adds weight to every level value meets or passes
func (p *LevelCrossingProfile) cross(value, weight float64) {
	if value >= p.Baseline {
		i := 0
		for i < len(p.TopCounts) && value >= p.Baseline+float64(i)*p.LevelWidth {
			p.TopCounts[i] += weight
			i++
		}
		return
	}
	i := 0
	for i < len(p.BottomCounts) && value <= p.Baseline-float64(i)*p.LevelWidth {
		p.BottomCounts[i] += weight
		i++
	}
}

// Pad returns a copy of p extended with zero counts to at least top levels
// above and bottom levels below the baseline.
func (p LevelCrossingProfile) Pad(top, bottom int) LevelCrossingProfile {
	out := LevelCrossingProfile{
		Baseline:     p.Baseline,
		LevelWidth:   p.LevelWidth,
		TopCounts:    padZeros(p.TopCounts, top),
		BottomCounts: padZeros(p.BottomCounts, bottom),
	}
	out.TopBins = make([]float64, len(out.TopCounts))
	for i := range out.TopBins {
		out.TopBins[i] = roundTo(p.Baseline+p.LevelWidth*float64(2*i+1)/2, 5)
	}
	out.BottomBins = make([]float64, len(out.BottomCounts))
	for i := range out.BottomBins {
		out.BottomBins[i] = roundTo(p.Baseline-p.LevelWidth*float64(2*i+1)/2, 5)
	}
	return out
}

func padZeros(counts []float64, n int) []float64 {
	if n < len(counts) {
		n = len(counts)
	}
	out := make([]float64, n)
	copy(out, counts)
	return out
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// AggregateProfiles sums per-flight profiles after padding each one with
// trailing zeros to the widest profile. All profiles must share the same
// baseline and level width.
func AggregateProfiles(profiles ...LevelCrossingProfile) (LevelCrossingProfile, error) {
	if len(profiles) == 0 {
		return LevelCrossingProfile{TopBins: []float64{}, BottomBins: []float64{}, TopCounts: []float64{}, BottomCounts: []float64{}}, nil
	}

	first := profiles[0]
	top, bottom := 0, 0
	for _, p := range profiles {
		if p.Baseline != first.Baseline || p.LevelWidth != first.LevelWidth {
			return LevelCrossingProfile{}, fmt.Errorf("cannot aggregate profiles with baseline/width %g/%g and %g/%g",
				first.Baseline, first.LevelWidth, p.Baseline, p.LevelWidth)
		}
		top = max(top, len(p.TopCounts))
		bottom = max(bottom, len(p.BottomCounts))
	}

	sum := first.Pad(top, bottom)
	for _, p := range profiles[1:] {
		padded := p.Pad(top, bottom)
		floats.Add(sum.TopCounts, padded.TopCounts)
		floats.Add(sum.BottomCounts, padded.BottomCounts)
	}
	return sum, nil
}
