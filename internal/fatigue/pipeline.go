package fatigue

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Config holds the parameters of a single-flight analysis
type Config struct {
	MeanBinSize        float64
	RangeBinSize       float64
	FromToBinSize      float64
	ExceedanceBinSize  float64
	Baseline           float64
	RacetrackThreshold float64 // 0 disables the filter
	Residue            ResidueMethod
	MaxLoadFactor      float64 // 0 disables the exceedance check
	LogOffset          LogOffset
	StressScale        float64 // 0 means 1
}

// DefaultConfig returns the analysis defaults used for 1 g based Nz records
func DefaultConfig() Config {
	return Config{
		MeanBinSize:        0.25,
		RangeBinSize:       0.25,
		FromToBinSize:      0.5,
		ExceedanceBinSize:  0.1,
		Baseline:           1.0,
		RacetrackThreshold: 0.10,
		Residue:            ResidueHalfCycles,
		MaxLoadFactor:      3.5,
		LogOffset:          LogOffsetPlus,
		StressScale:        1.0,
	}
}

// Validate checks every parameter and returns the first ConfigurationError
func (c Config) Validate() error {
	bins := []struct {
		name string
		v    float64
	}{
		{"mean_bin_size", c.MeanBinSize},
		{"range_bin_size", c.RangeBinSize},
		{"from_to_bin_size", c.FromToBinSize},
		{"exceedance_bin_size", c.ExceedanceBinSize},
	}
	for _, b := range bins {
		if !(b.v > 0) || math.IsInf(b.v, 0) {
			return &ConfigurationError{Field: b.name, Value: b.v, Reason: "must be a positive finite number"}
		}
	}

	if math.IsNaN(c.Baseline) || math.IsInf(c.Baseline, 0) {
		return &ConfigurationError{Field: "baseline", Value: c.Baseline, Reason: "must be finite"}
	}
	// +Inf is allowed and collapses the signal to its end points
	if math.IsNaN(c.RacetrackThreshold) || c.RacetrackThreshold < 0 {
		return &ConfigurationError{Field: "racetrack_threshold", Value: c.RacetrackThreshold, Reason: "must be >= 0"}
	}
	if math.IsNaN(c.MaxLoadFactor) || c.MaxLoadFactor < 0 {
		return &ConfigurationError{Field: "max_load_factor", Value: c.MaxLoadFactor, Reason: "must be >= 0"}
	}
	if math.IsNaN(c.StressScale) || math.IsInf(c.StressScale, 0) || c.StressScale < 0 {
		return &ConfigurationError{Field: "stress_scale", Value: c.StressScale, Reason: "must be a non-negative finite number"}
	}
	if c.Residue < ResidueHalfCycles || c.Residue > ResidueIgnore {
		return &ConfigurationError{Field: "residue", Value: float64(c.Residue), Reason: "unknown residue method"}
	}
	if c.LogOffset != LogOffsetPlus && c.LogOffset != LogOffsetMinus {
		return &ConfigurationError{Field: "log_offset", Value: float64(c.LogOffset), Reason: "unknown log offset"}
	}
	return nil
}

// Result is the full output of Analyze
type Result struct {
	Reversals  []Reversal
	Cycles     Cycles
	Residue    []Reversal
	MeanRange  CountMatrix
	FromTo     CountMatrix
	PeakValley CountMatrix
	Exceedance LevelCrossingProfile

	// Damage is only meaningful when DamageAvailable is set
	Damage          DamageResult
	DamageAvailable bool

	MinLoad  float64
	PeakLoad float64
	// Exceeded is set when PeakLoad is above Config.MaxLoadFactor
	Exceeded bool
}

// Analyze runs the whole pipeline on one signal: reversal detection,
// optional racetrack filtering, rainflow counting, binning, level crossing
// counting and, when coeffs is not nil, damage accumulation. The same input
// always produces the same output.
func Analyze(signal *Signal, cfg Config, coeffs *MaterialCoefficients) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if signal == nil {
		return nil, &MalformedSignalError{Reason: "no signal"}
	}
	if err := signal.Validate(); err != nil {
		return nil, err
	}

	values := signal.Values()
	res := &Result{
		MinLoad:  floats.Min(values),
		PeakLoad: floats.Max(values),
	}
	res.Exceeded = cfg.MaxLoadFactor > 0 && res.PeakLoad > cfg.MaxLoadFactor

	revs := FindReversals(values)
	if cfg.RacetrackThreshold > 0 {
		revs = RacetrackFilter(revs, cfg.RacetrackThreshold)
	}
	res.Reversals = revs
	res.Cycles, res.Residue = ExtractCycles(revs, cfg.Residue)

	res.MeanRange = MeanRangeMatrix(res.Cycles, cfg.MeanBinSize, cfg.RangeBinSize)
	res.FromTo = FromToMatrix(res.Cycles, cfg.FromToBinSize, cfg.FromToBinSize)
	res.PeakValley = PeakValleyMatrix(res.Cycles, cfg.FromToBinSize, cfg.FromToBinSize)
	res.Exceedance = LevelCrossings(res.Cycles, cfg.ExceedanceBinSize, cfg.Baseline)

	if coeffs != nil {
		res.DamageAvailable = true
		res.Damage = ComputeDamage(&res.MeanRange, DamageModel{
			Coefficients: *coeffs,
			OffsetSign:   cfg.LogOffset,
			StressScale:  cfg.StressScale,
		})
	}

	return res, nil
}
