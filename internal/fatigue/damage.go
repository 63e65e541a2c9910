package fatigue

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// LogOffset selects the sign of the c coefficient inside the S-N logarithm
type LogOffset int

const (
	// LogOffsetPlus evaluates N = 10^(a - b*ln(|S_eq| + c))
	LogOffsetPlus LogOffset = iota
	// LogOffsetMinus evaluates N = 10^(a - b*ln(|S_eq| - c))
	LogOffsetMinus
)

func (o LogOffset) String() string {
	if o == LogOffsetMinus {
		return "minus"
	}
	return "plus"
}

// ParseLogOffset maps "plus"/"+" and "minus"/"-" to a LogOffset. The empty
// string selects LogOffsetPlus.
func ParseLogOffset(s string) (LogOffset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plus", "+":
		return LogOffsetPlus, nil
	case "minus", "-":
		return LogOffsetMinus, nil
	}
	return 0, fmt.Errorf("unknown log offset %q (want plus or minus)", s)
}

// DamageModel evaluates cycles-to-failure for a mean/range load pair.
// StressScale converts load units (g) to the stress units the coefficients
// were fitted in; zero means 1.
type DamageModel struct {
	Coefficients MaterialCoefficients
	OffsetSign   LogOffset
	StressScale  float64
}

func (m DamageModel) scale() float64 {
	if m.StressScale == 0 {
		return 1
	}
	return m.StressScale
}

// CyclesToFailure returns the allowable number of cycles at the given mean
// and range. The stress ratio R = S_min/S_max is taken as 0 when S_max is 0.
func (m DamageModel) CyclesToFailure(mean, rng float64) (float64, error) {
	k := m.Coefficients
	sMax := (mean + rng/2) * m.scale()
	sMin := (mean - rng/2) * m.scale()

	r := 0.0
	if sMax != 0 {
		r = sMin / sMax
	}
	sEq := sMax * math.Pow(1-r, k.D)

	arg := math.Abs(sEq) + k.C
	if m.OffsetSign == LogOffsetMinus {
		arg = math.Abs(sEq) - k.C
	}
	if !(arg > 0) {
		return math.NaN(), &DomainError{Mean: mean, Range: rng, Argument: arg}
	}

	// N underflows to zero (or to a subnormal whose reciprocal overflows)
	// for steep curves at high stress
	n := math.Pow(10, k.A-k.B*math.Log(arg))
	if !(n > 0) || math.IsInf(n, 0) || math.IsInf(1/n, 0) {
		return math.NaN(), &DomainError{Mean: mean, Range: rng, Argument: arg}
	}
	return n, nil
}

// DamageResult holds the Miner's-rule damage of a mean-range matrix
type DamageResult struct {
	Total           float64
	Cells           *mat.Dense // count / N per cell, NaN where N is undefined
	CyclesToFailure *mat.Dense
	DomainErrors    []*DomainError
	// Incomplete is set when at least one populated cell was excluded from Total
	Incomplete bool
}

// ComputeDamage sums count/N over every populated cell of a mean-range
// matrix, evaluating N at the bin centers. Cells with a zero count are
// skipped. Cells whose N is undefined are recorded as DomainErrors, set to
// NaN in Cells and left out of Total.
func ComputeDamage(matrix *CountMatrix, model DamageModel) DamageResult {
	res := DamageResult{
		Cells:           denseLike(matrix),
		CyclesToFailure: denseLike(matrix),
	}
	if res.Cells == nil {
		return res
	}

	means := matrix.XCenters()
	ranges := matrix.YCenters()
	rows, cols := matrix.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			count := matrix.At(i, j)
			if count == 0 {
				continue
			}

			n, err := model.CyclesToFailure(means[j], ranges[i])
			if err != nil {
				de := err.(*DomainError)
				de.Row, de.Col = i, j
				res.DomainErrors = append(res.DomainErrors, de)
				res.Cells.Set(i, j, math.NaN())
				res.CyclesToFailure.Set(i, j, math.NaN())
				res.Incomplete = true
				continue
			}

			d := count / n
			res.CyclesToFailure.Set(i, j, n)
			res.Cells.Set(i, j, d)
			res.Total += d
		}
	}
	return res
}
