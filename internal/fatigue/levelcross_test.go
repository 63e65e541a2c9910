package fatigue

import (
	"math"
	"math/rand"
	"testing"
)

func floatsEqual(a, b []float64, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestLevelCrossings(t *testing.T) {
	tests := []struct {
		name         string
		cycles       Cycles
		width        float64
		baseline     float64
		topBins      []float64
		topCounts    []float64
		bottomBins   []float64
		bottomCounts []float64
	}{
		{
			name:         "peak and valley on level borders",
			cycles:       Cycles{{Mean: 1.25, Range: 2.5, Weight: 1}},
			width:        0.5,
			baseline:     1,
			topBins:      []float64{1.25, 1.75, 2.25, 2.75},
			topCounts:    []float64{1, 1, 1, 1},
			bottomBins:   []float64{0.75, 0.25, -0.25},
			bottomCounts: []float64{1, 1, 1},
		},
		{
			name: "weights accumulate toward the baseline",
			cycles: Cycles{
				{Mean: 1.25, Range: 0.5, Weight: 1}, // 1.0 .. 1.5
				{Mean: 1, Range: 1, Weight: 0.5},    // 0.5 .. 1.5
			},
			width:        0.5,
			baseline:     1,
			topBins:      []float64{1.25, 1.75},
			topCounts:    []float64{2.5, 1.5},
			bottomBins:   []float64{0.75, 0.25},
			bottomCounts: []float64{0.5, 0.5},
		},
		{
			name:         "no cycles",
			cycles:       Cycles{},
			width:        0.1,
			baseline:     1,
			topBins:      []float64{},
			topCounts:    []float64{},
			bottomBins:   []float64{},
			bottomCounts: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := LevelCrossings(tt.cycles, tt.width, tt.baseline)
			if !floatsEqual(p.TopBins, tt.topBins, 1e-9) {
				t.Errorf("top bins: expected %v, got %v", tt.topBins, p.TopBins)
			}
			if !floatsEqual(p.TopCounts, tt.topCounts, 1e-12) {
				t.Errorf("top counts: expected %v, got %v", tt.topCounts, p.TopCounts)
			}
			if !floatsEqual(p.BottomBins, tt.bottomBins, 1e-9) {
				t.Errorf("bottom bins: expected %v, got %v", tt.bottomBins, p.BottomBins)
			}
			if !floatsEqual(p.BottomCounts, tt.bottomCounts, 1e-12) {
				t.Errorf("bottom counts: expected %v, got %v", tt.bottomCounts, p.BottomCounts)
			}
		})
	}
}

func TestLevelCrossingsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	values := make([]float64, 2000)
	for i := range values {
		values[i] = 1 + 0.7*rng.NormFloat64()
	}
	cycles, _ := CountCycles(values, ResidueHalfCycles)

	p := LevelCrossings(cycles, 0.1, 1)
	if len(p.TopCounts) == 0 || len(p.BottomCounts) == 0 {
		t.Fatalf("expected levels on both sides, got %d/%d", len(p.TopCounts), len(p.BottomCounts))
	}
	for _, counts := range [][]float64{p.TopCounts, p.BottomCounts} {
		for i := 1; i < len(counts); i++ {
			if counts[i] > counts[i-1] {
				t.Errorf("count increases away from the baseline at level %d: %g > %g", i, counts[i], counts[i-1])
			}
		}
	}
}

func TestAggregateProfiles(t *testing.T) {
	a := LevelCrossingProfile{Baseline: 1, LevelWidth: 0.5, TopCounts: []float64{1, 1}, BottomCounts: []float64{}}
	b := LevelCrossingProfile{Baseline: 1, LevelWidth: 0.5, TopCounts: []float64{2}, BottomCounts: []float64{1}}

	sum, err := AggregateProfiles(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !floatsEqual(sum.TopCounts, []float64{3, 1}, 0) {
		t.Errorf("top counts: expected [3 1], got %v", sum.TopCounts)
	}
	if !floatsEqual(sum.BottomCounts, []float64{1}, 0) {
		t.Errorf("bottom counts: expected [1], got %v", sum.BottomCounts)
	}
	if !floatsEqual(sum.TopBins, []float64{1.25, 1.75}, 1e-9) || !floatsEqual(sum.BottomBins, []float64{0.75}, 1e-9) {
		t.Errorf("unexpected bins %v / %v", sum.TopBins, sum.BottomBins)
	}
	// inputs are untouched
	if a.TopCounts[0] != 1 || b.TopCounts[0] != 2 {
		t.Errorf("aggregation modified its inputs")
	}

	b.Baseline = 0
	if _, err := AggregateProfiles(a, b); err == nil {
		t.Errorf("expected an error for mismatched baselines")
	}
}
