package material

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"
)

const libraryJSON = `{
    "2024-T3 Aluminium": {
        "Unnotched, Sheet, Longitudinal": [11.1, 3.97, 15.8, 0.56]
    },
    "2024-T42 Aluminium": {
        "No data available": []
    }
}`

func TestJSONProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mat_lib.json")
	if err := os.WriteFile(path, []byte(libraryJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewJSONProvider(path)
	lib, err := p.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	k, err := lib.Lookup("2024-T3 Aluminium", "Unnotched, Sheet, Longitudinal")
	if err != nil || k.D != 0.56 {
		t.Errorf("unexpected coefficients %+v (%v)", k, err)
	}
	if e, ok := lib.Entry("2024-T42 Aluminium", NoDataCondition); !ok || e.Available {
		t.Errorf("expected a placeholder entry, got %+v", e)
	}

	if err := p.Save(Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, err := p.Load()
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if !reflect.DeepEqual(again.Map(), Default().Map()) {
		t.Errorf("library changed through a JSON save/load")
	}
}

func TestJSONProviderRejectsBadEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"X": {"Y": [1, 2]}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewJSONProvider(path).Load(); err == nil {
		t.Errorf("expected an error for a two-coefficient entry")
	}
}

func TestYAMLProvider(t *testing.T) {
	p := NewYAMLProvider(filepath.Join(t.TempDir(), "materials.yaml"))
	if err := p.Save(Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	lib, err := p.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(lib.Map(), Default().Map()) {
		t.Errorf("library changed through a YAML save/load")
	}
}

func TestSQLiteProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.db")

	p, err := NewSQLiteProvider(path)
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	if err := p.Save(Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	p.Close()

	// reopening must not re-run the schema migration
	p, err = NewSQLiteProvider(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer p.Close()

	lib, err := p.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(lib.Map(), Default().Map()) {
		t.Errorf("library changed through a SQLite save/load")
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"", "material.builtinProvider"},
		{"lib/mat_lib.json", "*material.JSONProvider"},
		{"materials.yml", "*material.YAMLProvider"},
	}
	for _, tt := range tests {
		p, err := Open("", tt.dsn)
		if err != nil {
			t.Fatalf("%q: %v", tt.dsn, err)
		}
		if got := reflect.TypeOf(p).String(); got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.dsn, tt.want, got)
		}
	}
	if _, err := Open("mongodb", "x"); err == nil {
		t.Errorf("expected an error for an unknown backend")
	}
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mat_lib.json")
	p := NewJSONProvider(path)
	if err := p.Save(Default()); err != nil {
		t.Fatal(err)
	}

	store := NewStore(Default())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, p, store, zap.NewNop().Sugar()) }()

	small := NewLibrary()
	small.Add("Ti-6Al-4V", Conditions{"Unnotched, Sheet, Longitudinal": NewEntry(15, 6, 0, 0.5)})

	// keep saving until the watcher, which may still be starting, picks it up
	deadline := time.Now().Add(5 * time.Second)
	for store.Library().Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("library was not reloaded")
		}
		if err := p.Save(small); err != nil {
			t.Fatal(err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}
