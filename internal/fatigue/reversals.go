package fatigue

import "math"

// FindReversals reduces a load history to its turning points. The first and
// last samples are always reversals. Repeated values are skipped so a flat
// run never yields more than one reversal; a constant signal therefore
// returns exactly its first and last sample.
func FindReversals(values []float64) []Reversal {
	n := len(values)
	if n < 2 {
		out := make([]Reversal, n)
		for i, v := range values {
			out[i] = Reversal{Index: i, Value: v}
		}
		return out
	}

	revs := []Reversal{{Index: 0, Value: values[0]}}

	// last holds the most recent distinct value, dir the sign of the slope into it
	last := Reversal{Index: 0, Value: values[0]}
	dir := 0.0
	for i := 1; i < n; i++ {
		v := values[i]
		if v == last.Value {
			continue
		}
		d := math.Copysign(1, v-last.Value)
		if dir != 0 && d != dir {
			revs = append(revs, last)
		}
		dir = d
		last = Reversal{Index: i, Value: v}
	}

	return append(revs, Reversal{Index: n - 1, Value: values[n-1]})
}

// reduceReversals drops points of an already-reduced sequence that are no
// longer turning points (after filtering), keeping the original indexes.
func reduceReversals(revs []Reversal) []Reversal {
	if len(revs) < 3 {
		return append([]Reversal(nil), revs...)
	}
	values := make([]float64, len(revs))
	for i, r := range revs {
		values[i] = r.Value
	}
	reduced := FindReversals(values)
	out := make([]Reversal, len(reduced))
	for i, r := range reduced {
		out[i] = revs[r.Index]
	}
	return out
}

// RacetrackFilter suppresses reversals whose excursion from the last
// accepted reversal does not exceed h. A small reversal that pushes the
// current excursion further replaces the last accepted point instead of
// being dropped. The first and last reversals are always kept, h=0 leaves
// the sequence unchanged and h=+Inf collapses it to the two end points.
func RacetrackFilter(revs []Reversal, h float64) []Reversal {
	if len(revs) < 3 || h <= 0 {
		return append([]Reversal(nil), revs...)
	}

	kept := []Reversal{revs[0]}
	for _, r := range revs[1 : len(revs)-1] {
		last := kept[len(kept)-1]
		d := r.Value - last.Value
		if math.Abs(d) > h {
			kept = append(kept, r)
			continue
		}
		if len(kept) < 2 {
			continue
		}
		prev := kept[len(kept)-2]
		// same direction as the accepted excursion and beyond it
		if (last.Value-prev.Value)*d > 0 {
			kept[len(kept)-1] = r
		}
	}
	kept = append(kept, revs[len(revs)-1])

	return reduceReversals(kept)
}

// FindReversalsFiltered finds the reversals of values and applies the
// racetrack filter with threshold h when h > 0.
func FindReversalsFiltered(values []float64, h float64) []Reversal {
	revs := FindReversals(values)
	if h > 0 {
		revs = RacetrackFilter(revs, h)
	}
	return revs
}

// ReversalValues returns the load values of revs
func ReversalValues(revs []Reversal) []float64 {
	out := make([]float64, len(revs))
	for i, r := range revs {
		out[i] = r.Value
	}
	return out
}
