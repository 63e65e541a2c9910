package imu

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/chrissnell/flightloads/internal/fatigue"
)

// Source reads flight files into signals
type Source struct {
	Format         string // dat, csv or empty to use the file extension
	LoadColumn     int    // .dat column, NzColumn when zero
	CSVColumn      int    // CSV value column, 1 when zero
	SampleInterval float64
	// GroundTrim removes the on-ground head and tail of .dat recordings
	GroundTrim *TrimOptions
	Logger     *zap.SugaredLogger
}

// Supported reports whether path has an extension Source can read
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dat", ".csv", ".txt":
		return true
	}
	return false
}

// Load reads the file at path
func (s *Source) Load(path string) (*fatigue.Signal, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	format := s.Format
	if format == "" {
		format = "dat"
		if ext := strings.ToLower(filepath.Ext(path)); ext == ".csv" || ext == ".txt" {
			format = "csv"
		}
	}

	switch format {
	case "csv":
		return ReadCSV(f, CSVOptions{ValueColumn: s.CSVColumn, SampleInterval: s.SampleInterval})
	case "dat":
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}

	load := s.LoadColumn
	if load == 0 {
		load = NzColumn
	}
	cols := []int{load}
	if s.GroundTrim != nil {
		trim := s.GroundTrim.withDefaults()
		if trim.Column != load {
			cols = append(cols, trim.Column)
		}
	}

	rec, err := ReadDat(f, DatOptions{Columns: cols, Name: path, Logger: logger})
	if err != nil {
		return nil, err
	}

	if s.GroundTrim != nil {
		n := rec.Len()
		var head, tail int
		rec, head, tail, err = TrimRecording(rec, *s.GroundTrim)
		if err != nil {
			return nil, err
		}
		logger.Infow("trimmed ground segments", "source", path, "head", head, "tail", tail, "records", n)
	}

	return rec.Signal(load)
}
