package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/chrissnell/flightloads/internal/material"
	"github.com/chrissnell/flightloads/pkg/config"
)

func writeFlight(t *testing.T, dir, name string, amplitude float64) {
	t.Helper()
	var b strings.Builder
	b.WriteString("time,nz\n")
	for i := 0; i < 1500; i++ {
		v := 1 + amplitude*math.Sin(float64(i)/7)*math.Cos(float64(i)/61)
		fmt.Fprintf(&b, "%.2f,%.6f\n", float64(i)*0.01, v)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}
}

func testConfig(t *testing.T) *config.ConfigData {
	cfg := config.DefaultConfigData()
	cfg.Input.Workers = 2
	cfg.Output.Dir = t.TempDir()
	cfg.Material.Material = "2024-T3 Aluminium"
	cfg.Material.Condition = "Unnotched, Sheet, Longitudinal"
	return cfg
}

func TestAnalyze(t *testing.T) {
	in := t.TempDir()
	writeFlight(t, in, "flight1.csv", 0.8)
	writeFlight(t, in, "flight2.csv", 0.5)

	cfg := testConfig(t)
	cfg.Output.WriteCycles = true
	a := New(cfg, zap.NewNop().Sugar())

	summary, err := a.Analyze(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Analyzed != 2 || summary.Failed != 0 {
		t.Errorf("expected 2 analyzed flights, got %+v", summary)
	}
	if !(summary.TotalDamage > 0) {
		t.Errorf("expected positive fleet damage, got %g", summary.TotalDamage)
	}

	for _, f := range []string{
		"fleet_summary.json",
		"fleet_exceedance.csv",
		filepath.Join("flight1", "flight1_summary.json"),
		filepath.Join("flight1", "flight1_mean_range.csv"),
		filepath.Join("flight2", "flight2_cycles.csv"),
	} {
		if _, err := os.Stat(filepath.Join(cfg.Output.Dir, f)); err != nil {
			t.Errorf("expected %s: %v", f, err)
		}
	}
}

func TestAnalyzeSharedStems(t *testing.T) {
	in := t.TempDir()
	if err := os.Mkdir(filepath.Join(in, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFlight(t, in, "flight.csv", 0.8)
	writeFlight(t, filepath.Join(in, "sub"), "flight.csv", 0.5)

	cfg := testConfig(t)
	summary, err := New(cfg, zap.NewNop().Sugar()).Analyze(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Analyzed != 2 {
		t.Fatalf("expected 2 analyzed flights, got %+v", summary)
	}
	for _, base := range []string{"flight_csv", "sub_flight_csv"} {
		p := filepath.Join(cfg.Output.Dir, base, base+"_summary.json")
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}
}

func TestAnalyzeMaterialSelection(t *testing.T) {
	in := t.TempDir()
	writeFlight(t, in, "flight.csv", 0.6)

	t.Run("unknown material", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Material.Material = "Unobtainium"
		_, err := New(cfg, zap.NewNop().Sugar()).Analyze(context.Background(), in)
		if !errors.Is(err, material.ErrMaterialLookup) {
			t.Fatalf("expected a lookup error, got %v", err)
		}
	})

	t.Run("placeholder material", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Material.Material = "7075-T73 Aluminium"
		cfg.Material.Condition = material.NoDataCondition
		summary, err := New(cfg, zap.NewNop().Sugar()).Analyze(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.Analyzed != 1 || summary.TotalDamage != 0 {
			t.Errorf("expected one flight without damage, got %+v", summary)
		}
	})

	t.Run("no material", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Material = config.MaterialData{}
		summary, err := New(cfg, zap.NewNop().Sugar()).Analyze(context.Background(), in)
		if err != nil || summary.Analyzed != 1 {
			t.Errorf("expected one analyzed flight, got %+v (%v)", summary, err)
		}
	})
}

func TestAnalyzeNoFlights(t *testing.T) {
	a := New(testConfig(t), zap.NewNop().Sugar())
	if _, err := a.Analyze(context.Background(), t.TempDir()); err == nil {
		t.Errorf("expected an error for an empty input directory")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.ListenAddr = "127.0.0.1"
	cfg.Server.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New(cfg, zap.NewNop().Sugar()).Run(ctx); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
