// Package config loads flightloads settings from YAML files or a SQLite
// database and applies the analysis defaults.
package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration, defaults applied
	LoadConfig() (*ConfigData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Analysis AnalysisData `json:"analysis" yaml:"analysis"`
	Input    InputData    `json:"input" yaml:"input"`
	Material MaterialData `json:"material" yaml:"material"`
	Output   OutputData   `json:"output" yaml:"output"`
	Server   ServerData   `json:"server" yaml:"server"`
}

// AnalysisData holds the rainflow, binning and damage parameters
type AnalysisData struct {
	MeanBinSize        float64 `json:"mean_bin_size" yaml:"mean-bin-size"`
	RangeBinSize       float64 `json:"range_bin_size" yaml:"range-bin-size"`
	FromToBinSize      float64 `json:"from_to_bin_size" yaml:"from-to-bin-size"`
	ExceedanceBinSize  float64 `json:"exceedance_bin_size" yaml:"exceedance-bin-size"`
	Baseline           float64 `json:"baseline" yaml:"baseline"`
	RacetrackThreshold float64 `json:"racetrack_threshold" yaml:"racetrack-threshold"`
	ResidueMethod      string  `json:"residue_method" yaml:"residue-method"`
	MaxLoadFactor      float64 `json:"max_load_factor" yaml:"max-load-factor"`
	LogOffset          string  `json:"log_offset" yaml:"log-offset"`
	StressScale        float64 `json:"stress_scale" yaml:"stress-scale"`
}

// InputData describes where recordings come from and how they are read
type InputData struct {
	Path           string         `json:"path" yaml:"path"`
	Format         string         `json:"format,omitempty" yaml:"format,omitempty"` // dat, csv or empty to use the extension
	LoadColumn     int            `json:"load_column" yaml:"load-column"`
	SampleInterval float64        `json:"sample_interval" yaml:"sample-interval"` // seconds, CSV without a time column
	Workers        int            `json:"workers" yaml:"workers"`
	GroundTrim     GroundTrimData `json:"ground_trim" yaml:"ground-trim"`
}

// GroundTrimData controls removal of the on-ground head and tail of a record
type GroundTrimData struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Window  int     `json:"window" yaml:"window"` // samples in the running mean
	Lag     int     `json:"lag" yaml:"lag"`       // samples between compared means
	Delta   float64 `json:"delta" yaml:"delta"`
	Column  int     `json:"column" yaml:"column"`
}

// MaterialData selects the material library and the analysed material
type MaterialData struct {
	Backend   string `json:"backend,omitempty" yaml:"backend,omitempty"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
	Material  string `json:"material,omitempty" yaml:"material,omitempty"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
	Watch     bool   `json:"watch,omitempty" yaml:"watch,omitempty"`
}

// OutputData controls the report files
type OutputData struct {
	Dir         string `json:"dir" yaml:"dir"`
	WriteCycles bool   `json:"write_cycles,omitempty" yaml:"write-cycles,omitempty"`
}

// ServerData configures the REST API
type ServerData struct {
	ListenAddr string `json:"listen_addr,omitempty" yaml:"listen-addr,omitempty"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	Cert       string `json:"cert,omitempty" yaml:"cert,omitempty"`
	Key        string `json:"key,omitempty" yaml:"key,omitempty"`
}
