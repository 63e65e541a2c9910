package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chrissnell/flightloads/internal/fatigue"
	"github.com/chrissnell/flightloads/internal/fleet"
)

// FlightFiles lists what WriteFlight produced
type FlightFiles struct {
	MeanRange  string
	FromTo     string
	PeakValley string
	Exceedance string
	Cycles     string
	NASGRO     string
	Summary    string
}

// BaseName derives the report prefix from a flight file path
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FlightBaseNames maps each flight path to its report prefix. The file stem
// is used unless another flight shares it; those flights are named by their
// path relative to root, extension included, with separators and dots
// replaced by underscores.
func FlightBaseNames(root string, paths []string) map[string]string {
	stems := make(map[string]int, len(paths))
	for _, p := range paths {
		stems[BaseName(p)]++
	}

	flatten := strings.NewReplacer("/", "_", string(filepath.Separator), "_", ".", "_")
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		base := BaseName(p)
		if stems[base] > 1 {
			rel, err := filepath.Rel(root, p)
			if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
				rel = p
			}
			base = strings.TrimLeft(flatten.Replace(rel), "_")
		}
		out[p] = base
	}
	return out
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func reversalValues(revs []fatigue.Reversal) []float64 {
	out := make([]float64, len(revs))
	for i, r := range revs {
		out[i] = r.Value
	}
	return out
}

// WriteFlight writes the matrices, exceedance table, NASGRO spectrum,
// optional cycle table and summary of one flight into dir, each file prefixed with base
func WriteFlight(dir, base string, summary FlightSummary, res *fatigue.Result, withCycles bool) (FlightFiles, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return FlightFiles{}, err
	}
	prefix := filepath.Join(dir, base)
	files := FlightFiles{
		MeanRange:  prefix + "_mean_range.csv",
		FromTo:     prefix + "_from_to.csv",
		PeakValley: prefix + "_peak_valley.csv",
		Exceedance: prefix + "_exceedance.csv",
		NASGRO:     prefix + "_nasgro.txt",
		Summary:    prefix + "_summary.json",
	}

	writes := []struct {
		path  string
		write func(io.Writer) error
	}{
		{files.MeanRange, func(w io.Writer) error { return WriteMatrixCSV(w, &res.MeanRange, "range\\mean") }},
		{files.FromTo, func(w io.Writer) error { return WriteMatrixCSV(w, &res.FromTo, "to\\from") }},
		{files.PeakValley, func(w io.Writer) error { return WriteMatrixCSV(w, &res.PeakValley, "peak\\valley") }},
		{files.Exceedance, func(w io.Writer) error { return WriteExceedanceCSV(w, res.Exceedance) }},
		{files.NASGRO, func(w io.Writer) error {
			_, err := WritePeakValleyPairs(w, reversalValues(res.Reversals), nil)
			return err
		}},
		{files.Summary, func(w io.Writer) error { return WriteJSON(w, summary) }},
	}
	if withCycles {
		files.Cycles = prefix + "_cycles.csv"
		writes = append(writes, struct {
			path  string
			write func(io.Writer) error
		}{files.Cycles, func(w io.Writer) error { return WriteCyclesCSV(w, res.Cycles) }})
	}

	for _, wr := range writes {
		if err := writeFile(wr.path, wr.write); err != nil {
			return files, err
		}
	}
	return files, nil
}

// FleetFlight is one line of the fleet summary
type FleetFlight struct {
	Path     string  `json:"path"`
	Status   string  `json:"status"`
	Cycles   float64 `json:"cycles,omitempty"`
	PeakLoad float64 `json:"peak_load,omitempty"`
	Damage   float64 `json:"damage,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// FleetSummary is the JSON document written for a batch
type FleetSummary struct {
	RunID            string                       `json:"run_id"`
	Generated        time.Time                    `json:"generated"`
	Material         string                       `json:"material,omitempty"`
	Condition        string                       `json:"condition,omitempty"`
	Analyzed         int                          `json:"analyzed"`
	Discarded        int                          `json:"discarded"`
	Failed           int                          `json:"failed"`
	Skipped          int                          `json:"skipped"`
	TotalDamage      float64                      `json:"total_damage"`
	DamageIncomplete bool                         `json:"damage_incomplete"`
	Exceedance       fatigue.LevelCrossingProfile `json:"exceedance"`
	Flights          []FleetFlight                `json:"flights"`
}

// NewFleetSummary converts a batch result for reporting
func NewFleetSummary(runID string, s *fleet.Summary, material, condition string) FleetSummary {
	out := FleetSummary{
		RunID:            runID,
		Generated:        time.Now().UTC(),
		Material:         material,
		Condition:        condition,
		Analyzed:         s.Analyzed,
		Discarded:        s.Discarded,
		Failed:           s.Failed,
		Skipped:          s.Skipped,
		TotalDamage:      s.TotalDamage,
		DamageIncomplete: s.DamageIncomplete,
		Exceedance:       s.Exceedance,
		Flights:          make([]FleetFlight, 0, len(s.Flights)),
	}

	for _, fr := range s.Flights {
		ff := FleetFlight{Path: fr.Path}
		switch {
		case fr.Skipped:
			ff.Status = "skipped"
		case fr.Err != nil:
			ff.Status = "failed"
			ff.Error = fr.Err.Error()
		case fr.Discarded:
			ff.Status = "discarded"
		default:
			ff.Status = "analyzed"
		}
		if fr.Result != nil {
			ff.Cycles = fr.Result.Cycles.TotalWeight()
			ff.PeakLoad = fr.Result.PeakLoad
			ff.Damage = fr.Result.Damage.Total
		}
		out.Flights = append(out.Flights, ff)
	}
	return out
}

// WriteFleet writes the summed exceedance table and the fleet summary into dir
func WriteFleet(dir string, summary FleetSummary) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, "fleet_exceedance.csv"), func(w io.Writer) error {
		return WriteExceedanceCSV(w, summary.Exceedance)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, "fleet_summary.json"), func(w io.Writer) error {
		return WriteJSON(w, summary)
	})
}
