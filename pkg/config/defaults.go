package config

import (
	"fmt"
	"runtime"

	"github.com/chrissnell/flightloads/internal/fatigue"
)

// Default values applied to every loaded configuration
const (
	DefaultLoadColumn     = 7 // Nz
	DefaultSampleInterval = 0.01
	DefaultTrimWindow     = 10
	DefaultTrimLag        = 500 // 5 s at 100 Hz
	DefaultTrimDelta      = 1.0
	DefaultTrimColumn     = 4 // wz
	DefaultOutputDir      = "flightloads-out"
	DefaultPort           = 8080
)

// DefaultConfigData returns a configuration with every default set. Providers
// decode on top of it, so settings absent from the source keep their default
// while explicit zeros (e.g. racetrack-threshold: 0) are honoured.
func DefaultConfigData() *ConfigData {
	fc := fatigue.DefaultConfig()
	return &ConfigData{
		Analysis: AnalysisData{
			MeanBinSize:        fc.MeanBinSize,
			RangeBinSize:       fc.RangeBinSize,
			FromToBinSize:      fc.FromToBinSize,
			ExceedanceBinSize:  fc.ExceedanceBinSize,
			Baseline:           fc.Baseline,
			RacetrackThreshold: fc.RacetrackThreshold,
			ResidueMethod:      fc.Residue.String(),
			MaxLoadFactor:      fc.MaxLoadFactor,
			LogOffset:          fc.LogOffset.String(),
			StressScale:        fc.StressScale,
		},
		Input: InputData{
			LoadColumn:     DefaultLoadColumn,
			SampleInterval: DefaultSampleInterval,
			Workers:        runtime.NumCPU(),
			GroundTrim: GroundTrimData{
				Window: DefaultTrimWindow,
				Lag:    DefaultTrimLag,
				Delta:  DefaultTrimDelta,
				Column: DefaultTrimColumn,
			},
		},
		Output: OutputData{
			Dir: DefaultOutputDir,
		},
		Server: ServerData{
			Port: DefaultPort,
		},
	}
}

// FatigueConfig converts the analysis section into a validated fatigue.Config
func (a AnalysisData) FatigueConfig() (fatigue.Config, error) {
	residue, err := fatigue.ParseResidueMethod(a.ResidueMethod)
	if err != nil {
		return fatigue.Config{}, err
	}
	offset, err := fatigue.ParseLogOffset(a.LogOffset)
	if err != nil {
		return fatigue.Config{}, err
	}

	fc := fatigue.Config{
		MeanBinSize:        a.MeanBinSize,
		RangeBinSize:       a.RangeBinSize,
		FromToBinSize:      a.FromToBinSize,
		ExceedanceBinSize:  a.ExceedanceBinSize,
		Baseline:           a.Baseline,
		RacetrackThreshold: a.RacetrackThreshold,
		Residue:            residue,
		MaxLoadFactor:      a.MaxLoadFactor,
		LogOffset:          offset,
		StressScale:        a.StressScale,
	}
	if err := fc.Validate(); err != nil {
		return fatigue.Config{}, err
	}
	return fc, nil
}

// Validate checks the whole configuration. Analysis errors are returned as
// *fatigue.ConfigurationError.
func (c *ConfigData) Validate() error {
	if _, err := c.Analysis.FatigueConfig(); err != nil {
		return err
	}

	switch c.Input.Format {
	case "", "dat", "csv":
	default:
		return fmt.Errorf("input format %q is not one of dat, csv", c.Input.Format)
	}
	if c.Input.LoadColumn < 0 {
		return &fatigue.ConfigurationError{Field: "load_column", Value: float64(c.Input.LoadColumn), Reason: "must be >= 0"}
	}
	if c.Input.SampleInterval <= 0 {
		return &fatigue.ConfigurationError{Field: "sample_interval", Value: c.Input.SampleInterval, Reason: "must be positive"}
	}
	if c.Input.Workers < 0 {
		return &fatigue.ConfigurationError{Field: "workers", Value: float64(c.Input.Workers), Reason: "must be >= 0"}
	}
	if gt := c.Input.GroundTrim; gt.Enabled && (gt.Window < 1 || gt.Lag < 1 || gt.Delta <= 0) {
		return fmt.Errorf("ground trim needs window >= 1, lag >= 1 and delta > 0 (got %d, %d, %g)", gt.Window, gt.Lag, gt.Delta)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return &fatigue.ConfigurationError{Field: "port", Value: float64(c.Server.Port), Reason: "must be a TCP port"}
	}
	if (c.Server.Cert == "") != (c.Server.Key == "") {
		return fmt.Errorf("server cert and key must be set together")
	}
	return nil
}
