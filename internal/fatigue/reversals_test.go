package fatigue

import (
	"math"
	"math/rand"
	"testing"
)

func TestFindReversals(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		indexes []int
		want    []float64
	}{
		{
			name:    "alternating input is kept",
			values:  []float64{-2, 1, -3, 5, -1, 3, -4, 4, -2},
			indexes: []int{0, 1, 2, 3, 4, 5, 6, 7, 8},
			want:    []float64{-2, 1, -3, 5, -1, 3, -4, 4, -2},
		},
		{
			name:    "monotonic runs and flats collapse",
			values:  []float64{0, 1, 2, 1, 1, 0, 3},
			indexes: []int{0, 2, 5, 6},
			want:    []float64{0, 2, 0, 3},
		},
		{
			name:    "constant signal",
			values:  []float64{1, 1, 1, 1},
			indexes: []int{0, 3},
			want:    []float64{1, 1},
		},
		{
			name:    "monotonic signal",
			values:  []float64{0, 1, 2, 3, 4},
			indexes: []int{0, 4},
			want:    []float64{0, 4},
		},
		{
			name:    "flat tail",
			values:  []float64{0, 1, 0, 0},
			indexes: []int{0, 1, 3},
			want:    []float64{0, 1, 0},
		},
		{
			name:    "single sample",
			values:  []float64{7},
			indexes: []int{0},
			want:    []float64{7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			revs := FindReversals(tt.values)
			if len(revs) != len(tt.want) {
				t.Fatalf("expected %d reversals, got %d: %v", len(tt.want), len(revs), revs)
			}
			for i, r := range revs {
				if r.Index != tt.indexes[i] || r.Value != tt.want[i] {
					t.Errorf("reversal %d: expected {%d %g}, got {%d %g}", i, tt.indexes[i], tt.want[i], r.Index, r.Value)
				}
			}
		})
	}
}

func TestFindReversalsRandomSignals(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for n := 2; n < 200; n += 7 {
		values := make([]float64, n)
		for i := range values {
			values[i] = math.Round(rng.NormFloat64()*4) / 2
		}

		revs := FindReversals(values)
		if len(revs) < 2 || len(revs) > n {
			t.Fatalf("n=%d: reversal count %d out of [2, %d]", n, len(revs), n)
		}
		if revs[0].Index != 0 || revs[len(revs)-1].Index != n-1 {
			t.Errorf("n=%d: end points not kept: %v", n, revs)
		}
		// interior reversals alternate direction
		for i := 1; i < len(revs)-1; i++ {
			d1 := revs[i].Value - revs[i-1].Value
			d2 := revs[i+1].Value - revs[i].Value
			if d1*d2 >= 0 {
				t.Errorf("n=%d: reversal %d (%g) is not a turning point", n, i, revs[i].Value)
			}
		}
	}
}

func TestRacetrackFilter(t *testing.T) {
	values := []float64{0, 5, 4.9, 5.2, -3, -2.95, -3.1, 2}

	t.Run("zero threshold is a no-op", func(t *testing.T) {
		revs := FindReversals(values)
		got := RacetrackFilter(revs, 0)
		if len(got) != len(revs) {
			t.Fatalf("expected %d reversals, got %d", len(revs), len(got))
		}
		for i := range got {
			if got[i] != revs[i] {
				t.Errorf("reversal %d changed: %v -> %v", i, revs[i], got[i])
			}
		}
	})

	t.Run("infinite threshold keeps end points", func(t *testing.T) {
		got := RacetrackFilter(FindReversals(values), math.Inf(1))
		if len(got) != 2 || got[0].Index != 0 || got[1].Index != len(values)-1 {
			t.Errorf("expected first and last sample, got %v", got)
		}
	})

	t.Run("small excursions extend the accepted point", func(t *testing.T) {
		got := FindReversalsFiltered(values, 0.5)
		wantIdx := []int{0, 3, 6, 7}
		wantVal := []float64{0, 5.2, -3.1, 2}
		if len(got) != len(wantIdx) {
			t.Fatalf("expected %d reversals, got %v", len(wantIdx), got)
		}
		for i, r := range got {
			if r.Index != wantIdx[i] || r.Value != wantVal[i] {
				t.Errorf("reversal %d: expected {%d %g}, got {%d %g}", i, wantIdx[i], wantVal[i], r.Index, r.Value)
			}
		}
	})

	t.Run("filtered output is still a reversal sequence", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		signal := make([]float64, 500)
		for i := range signal {
			signal[i] = 1 + 0.8*math.Sin(float64(i)/15) + 0.1*rng.NormFloat64()
		}
		got := FindReversalsFiltered(signal, 0.3)
		all := FindReversals(signal)
		if len(got) > len(all) {
			t.Errorf("filter added reversals: %d > %d", len(got), len(all))
		}
		for i := 1; i < len(got)-1; i++ {
			d1 := got[i].Value - got[i-1].Value
			d2 := got[i+1].Value - got[i].Value
			if d1*d2 >= 0 {
				t.Errorf("reversal %d is not a turning point", i)
			}
		}
	})
}
