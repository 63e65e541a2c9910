package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chrissnell/flightloads/internal/fatigue"
	"github.com/chrissnell/flightloads/internal/fleet"
)

func readCSV(t *testing.T, s string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	return rows
}

func astmResult(t *testing.T) (*fatigue.Signal, *fatigue.Result) {
	t.Helper()
	s, err := fatigue.NewSignal([]float64{-2, 1, -3, 5, -1, 3, -4, 4, -2}, nil)
	if err != nil {
		t.Fatalf("NewSignal: %v", err)
	}
	cfg := fatigue.DefaultConfig()
	cfg.RacetrackThreshold = 0
	cfg.MaxLoadFactor = 10
	res, err := fatigue.Analyze(s, cfg, &fatigue.MaterialCoefficients{A: 6, B: 1, C: 20, D: 0})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return s, res
}

func TestWriteMatrixCSV(t *testing.T) {
	m := fatigue.MeanRangeMatrix(fatigue.Cycles{
		{Mean: 0.25, Range: 0.5, Weight: 1},
		{Mean: 0.75, Range: 1, Weight: 0.5},
	}, 0.5, 0.5)

	var buf bytes.Buffer
	if err := WriteMatrixCSV(&buf, &m, "range\\mean"); err != nil {
		t.Fatalf("WriteMatrixCSV: %v", err)
	}
	rows := readCSV(t, buf.String())

	r, c := m.Dims()
	if len(rows) != r+1 || len(rows[0]) != c+1 {
		t.Fatalf("expected %dx%d table, got %v", r+1, c+1, rows)
	}
	if rows[0][0] != "range\\mean" || rows[0][1] != "0.25" {
		t.Errorf("unexpected header %v", rows[0])
	}
	total := 0.0
	for _, row := range rows[1:] {
		for _, cell := range row[1:] {
			var v float64
			json.Unmarshal([]byte(cell), &v)
			total += v
		}
	}
	if total != 1.5 {
		t.Errorf("expected the table to hold 1.5 cycles, got %g", total)
	}
}

func TestWriteExceedanceCSV(t *testing.T) {
	p := fatigue.LevelCrossingProfile{
		Baseline:     1,
		LevelWidth:   0.5,
		TopBins:      []float64{1.25, 1.75},
		TopCounts:    []float64{3, 1},
		BottomBins:   []float64{0.75, 0.25},
		BottomCounts: []float64{2, 0.5},
	}
	var buf bytes.Buffer
	if err := WriteExceedanceCSV(&buf, p); err != nil {
		t.Fatalf("WriteExceedanceCSV: %v", err)
	}

	want := [][]string{
		{"side", "level", "count"},
		{"below", "0.25", "0.5"},
		{"below", "0.75", "2"},
		{"above", "1.25", "3"},
		{"above", "1.75", "1"},
	}
	rows := readCSV(t, buf.String())
	if len(rows) != len(want) {
		t.Fatalf("expected %v, got %v", want, rows)
	}
	for i := range want {
		if strings.Join(rows[i], ",") != strings.Join(want[i], ",") {
			t.Errorf("row %d: expected %v, got %v", i, want[i], rows[i])
		}
	}
}

func TestWritePeakValleyPairs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	var buf bytes.Buffer

	// valley first, so every pair is swapped; the third pair peaks below the
	// previous valley and is skipped, the odd last reversal is dropped
	n, err := WritePeakValleyPairs(&buf, []float64{0.5, 2, 1.2, 1.8, 0.9, 1.1, 0.2, 2.5, 1}, zap.New(core).Sugar())
	if err != nil {
		t.Fatalf("WritePeakValleyPairs: %v", err)
	}
	want := "peak      valley    reps\n" +
		"2.0000000 0.5000000 1\n" +
		"1.8000000 1.2000000 1\n" +
		"2.5000000 0.2000000 1\n"
	if n != 3 || buf.String() != want {
		t.Errorf("expected %d pairs:\n%s\ngot %d:\n%s", 3, want, n, buf.String())
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected warnings %v", logs.All())
	}
}

func TestFlightSummary(t *testing.T) {
	s, res := astmResult(t)
	fs := NewFlightSummary(NewRunID(), "astm.csv", s, res, "Aluminum 2024-T3", "Kt = 1.5")

	if fs.Signal.Samples != 9 || fs.Signal.Min != -4 || fs.Signal.Max != 5 {
		t.Errorf("unexpected stats %+v", fs.Signal)
	}
	if math.Abs(fs.Signal.Mean-1.0/9) > 1e-12 {
		t.Errorf("expected mean 1/9, got %g", fs.Signal.Mean)
	}
	if fs.Cycles != 4 || fs.Damage == nil || fs.Damage.Material != "Aluminum 2024-T3" {
		t.Errorf("unexpected summary %+v", fs)
	}
	if len(fs.RunID) != 36 {
		t.Errorf("expected a UUID run ID, got %q", fs.RunID)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, fs); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("summary is not JSON: %v", err)
	}
	if decoded["source"] != "astm.csv" || decoded["damage"] == nil {
		t.Errorf("unexpected document %v", decoded)
	}
}

func TestWriteFlight(t *testing.T) {
	s, res := astmResult(t)
	dir := filepath.Join(t.TempDir(), "out")

	files, err := WriteFlight(dir, BaseName("/data/astm.dat"), NewFlightSummary("run", "astm.dat", s, res, "", ""), res, true)
	if err != nil {
		t.Fatalf("WriteFlight: %v", err)
	}
	for _, p := range []string{files.MeanRange, files.FromTo, files.PeakValley, files.Exceedance, files.Cycles, files.NASGRO, files.Summary} {
		if !strings.HasPrefix(filepath.Base(p), "astm_") {
			t.Errorf("unexpected file name %s", p)
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}

	cycles, _ := os.ReadFile(files.Cycles)
	if rows := readCSV(t, string(cycles)); len(rows) != len(res.Cycles)+1 {
		t.Errorf("expected %d cycle rows, got %d", len(res.Cycles)+1, len(rows))
	}
}

func TestFleetSummary(t *testing.T) {
	_, res := astmResult(t)
	s := &fleet.Summary{
		Flights: []fleet.FlightResult{
			{Path: "a.dat", Result: res},
			{Path: "b.dat", Err: errors.New("bad record")},
			{Path: "c.dat", Skipped: true},
		},
		Analyzed:    1,
		Failed:      1,
		Skipped:     1,
		TotalDamage: res.Damage.Total,
		Exceedance:  res.Exceedance,
	}

	fs := NewFleetSummary("run", s, "Aluminum 2024-T3", "Kt = 1.5")
	statuses := []string{fs.Flights[0].Status, fs.Flights[1].Status, fs.Flights[2].Status}
	if strings.Join(statuses, ",") != "analyzed,failed,skipped" || fs.Flights[1].Error != "bad record" {
		t.Errorf("unexpected flights %+v", fs.Flights)
	}

	dir := t.TempDir()
	if err := WriteFleet(dir, fs); err != nil {
		t.Fatalf("WriteFleet: %v", err)
	}
	for _, name := range []string{"fleet_exceedance.csv", "fleet_summary.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestFlightBaseNames(t *testing.T) {
	root := filepath.Join("data", "fleet")
	in := func(parts ...string) string { return filepath.Join(append([]string{root}, parts...)...) }

	tests := []struct {
		name  string
		root  string
		paths []string
		want  []string
	}{
		{
			name:  "distinct stems",
			root:  root,
			paths: []string{in("a.dat"), in("b.csv")},
			want:  []string{"a", "b"},
		},
		{
			name:  "same stem, different extension",
			root:  root,
			paths: []string{in("x.dat"), in("x.csv")},
			want:  []string{"x_dat", "x_csv"},
		},
		{
			name:  "same stem, different directory",
			root:  root,
			paths: []string{in("a", "f.dat"), in("b", "f.dat"), in("g.dat")},
			want:  []string{"a_f_dat", "b_f_dat", "g"},
		},
		{
			name:  "file root",
			root:  in("x.dat"),
			paths: []string{in("x.dat")},
			want:  []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlightBaseNames(tt.root, tt.paths)
			seen := map[string]bool{}
			for i, p := range tt.paths {
				if got[p] != tt.want[i] {
					t.Errorf("%s: expected %q, got %q", p, tt.want[i], got[p])
				}
				if seen[got[p]] {
					t.Errorf("duplicate report name %q", got[p])
				}
				seen[got[p]] = true
			}
		})
	}
}
