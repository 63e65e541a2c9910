package fatigue

import (
	"fmt"
	"math"
	"strings"
)

// ResidueMethod selects how the unclosed reversals left after the four-point
// pass are turned into cycles.
type ResidueMethod int

const (
	// ResidueHalfCycles counts every adjacent residue pair as a half cycle
	// (ASTM E1049 rainflow counting).
	ResidueHalfCycles ResidueMethod = iota
	// ResidueDoubled appends the residue to a copy of itself, reruns the
	// four-point pass and counts the cycles it closes as half cycles.
	ResidueDoubled
	// ResidueIgnore discards the residue
	ResidueIgnore
)

func (m ResidueMethod) String() string {
	switch m {
	case ResidueHalfCycles:
		return "half"
	case ResidueDoubled:
		return "doubled"
	case ResidueIgnore:
		return "ignore"
	}
	return fmt.Sprintf("ResidueMethod(%d)", int(m))
}

// ParseResidueMethod maps a configuration string to a ResidueMethod.
// The empty string selects ResidueHalfCycles.
func ParseResidueMethod(s string) (ResidueMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "half", "astm":
		return ResidueHalfCycles, nil
	case "doubled", "repeated":
		return ResidueDoubled, nil
	case "ignore", "none":
		return ResidueIgnore, nil
	}
	return 0, fmt.Errorf("unknown residue method %q (want half, doubled or ignore)", s)
}

// ExtractCycles runs four-point rainflow counting over revs. Closed cycles
// carry weight 1.0; cycles recovered from the residue carry weight 0.5.
// The returned residue is the stack left after the closing pass.
//
// With ResidueHalfCycles the cycle weights satisfy
// sum(2*weight) == len(revs)-1.
func ExtractCycles(revs []Reversal, method ResidueMethod) (Cycles, []Reversal) {
	if degenerate(revs) {
		return Cycles{}, append([]Reversal(nil), revs...)
	}

	cycles, residue := closeCycles(revs, 1.0)

	switch method {
	case ResidueHalfCycles:
		for i := 1; i < len(residue); i++ {
			cycles = append(cycles, newCycle(residue[i-1].Value, residue[i].Value, 0.5))
		}
	case ResidueDoubled:
		doubled := make([]Reversal, 0, 2*len(residue))
		doubled = append(doubled, residue...)
		doubled = append(doubled, residue...)
		// the join may leave a repeated value or a point on a monotonic run
		halves, _ := closeCycles(reduceReversals(doubled), 0.5)
		cycles = append(cycles, halves...)
	}

	return cycles, residue
}

// closeCycles is the four-point pass. Whenever the inner range of the top
// four stack entries is <= both neighbouring ranges, the two inner points
// form a cycle and are removed.
func closeCycles(revs []Reversal, weight float64) (Cycles, []Reversal) {
	stack := make([]Reversal, 0, len(revs))
	cycles := Cycles{}

	for _, r := range revs {
		stack = append(stack, r)
		for len(stack) >= 4 {
			n := len(stack)
			s0, s1, s2, s3 := stack[n-4].Value, stack[n-3].Value, stack[n-2].Value, stack[n-1].Value
			inner := math.Abs(s2 - s1)
			if inner > math.Abs(s1-s0) || inner > math.Abs(s3-s2) {
				break
			}
			cycles = append(cycles, newCycle(s1, s2, weight))
			stack = append(stack[:n-3], stack[n-1])
		}
	}

	return cycles, stack
}

func degenerate(revs []Reversal) bool {
	if len(revs) < 2 {
		return true
	}
	for _, r := range revs[1:] {
		if r.Value != revs[0].Value {
			return false
		}
	}
	return true
}

// CountCycles runs reversal detection and rainflow counting on raw values
func CountCycles(values []float64, method ResidueMethod) (Cycles, []Reversal) {
	return ExtractCycles(FindReversals(values), method)
}
