package imu

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chrissnell/flightloads/internal/fatigue"
)

// record formats one full width line with channels 2..7
func record(t time.Time, channels [6]float64) string {
	var b strings.Builder
	b.WriteString(t.Format(TimestampLayout) + "0")
	for _, v := range channels {
		fmt.Fprintf(&b, " %10.4f", v)
	}
	return b.String() + strings.Repeat(" ", RecordWidth-b.Len())
}

func datFile(nz []float64, eol string) string {
	var b strings.Builder
	for i, v := range nz {
		t := DefaultRetimeStart.Add(time.Duration(i+1) * DefaultRetimeStep)
		b.WriteString(record(t, [6]float64{0.1, 0.2, float64(i), 0.4, 0.5, v}) + eol)
	}
	return b.String()
}

func TestReadDat(t *testing.T) {
	t.Run("complete file", func(t *testing.T) {
		rec, err := ReadDat(strings.NewReader(datFile([]float64{1, 1.5, 0.5, 1}, "\n")), DatOptions{Columns: []int{NzColumn, WzColumn}})
		if err != nil {
			t.Fatalf("ReadDat: %v", err)
		}
		if rec.Len() != 4 || rec.TrailingDropped {
			t.Fatalf("expected 4 records, got %d (dropped %v)", rec.Len(), rec.TrailingDropped)
		}
		for i, want := range []float64{0, 0.01, 0.02, 0.03} {
			if math.Abs(rec.Times[i]-want) > 1e-9 {
				t.Errorf("time %d: expected %g, got %g", i, want, rec.Times[i])
			}
		}
		if want := DefaultRetimeStart.Add(DefaultRetimeStep); !rec.Start.Equal(want) {
			t.Errorf("expected start %v, got %v", want, rec.Start)
		}
		nz, _ := rec.Channel(NzColumn)
		if nz[1] != 1.5 {
			t.Errorf("expected Nz 1.5, got %g", nz[1])
		}
		wz, _ := rec.Channel(WzColumn)
		if wz[3] != 3 {
			t.Errorf("expected wz 3, got %g", wz[3])
		}
		if _, err := rec.Channel(5); err == nil {
			t.Errorf("expected an error for an unread column")
		}
	})

	t.Run("CRLF line endings", func(t *testing.T) {
		rec, err := ReadDat(strings.NewReader(datFile([]float64{1, 2}, "\r\n")), DatOptions{})
		if err != nil {
			t.Fatalf("ReadDat: %v", err)
		}
		if rec.Len() != 2 || rec.TrailingDropped {
			t.Errorf("expected 2 complete records, got %d", rec.Len())
		}
	})

	t.Run("incomplete trailing record", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		data := datFile([]float64{1, 2, 3}, "\n") + "01-06-1980 00:00:00.0400000     0.1000"

		rec, err := ReadDat(strings.NewReader(data), DatOptions{Name: "flight.dat", Logger: zap.New(core).Sugar()})
		if err != nil {
			t.Fatalf("ReadDat: %v", err)
		}
		if rec.Len() != 3 || !rec.TrailingDropped {
			t.Errorf("expected 3 records with the trailing one dropped, got %d", rec.Len())
		}
		if logs.Len() != 1 || logs.All()[0].ContextMap()["source"] != "flight.dat" {
			t.Errorf("expected one warning naming the source, got %v", logs.All())
		}
	})

	t.Run("bad value", func(t *testing.T) {
		lines := strings.Split(datFile([]float64{1, 2, 3}, "\n"), "\n")
		lines[1] = strings.Replace(lines[1], "2.0000", "2.0x00", 1)
		_, err := ReadDat(strings.NewReader(strings.Join(lines, "\n")), DatOptions{})
		var me *fatigue.MalformedSignalError
		if !errors.As(err, &me) || me.Index != 1 {
			t.Errorf("expected a malformed record at 1, got %v", err)
		}
	})

	t.Run("timestamp column requested", func(t *testing.T) {
		if _, err := ReadDat(strings.NewReader(""), DatOptions{Columns: []int{1}}); err == nil {
			t.Errorf("expected an error")
		}
	})
}

func TestRecordingSlice(t *testing.T) {
	rec, err := ReadDat(strings.NewReader(datFile([]float64{1, 2, 3, 4, 5}, "\n")), DatOptions{})
	if err != nil {
		t.Fatalf("ReadDat: %v", err)
	}
	s := rec.Slice(1, 3)
	nz, _ := s.Channel(NzColumn)
	if s.Len() != 2 || nz[0] != 2 || nz[1] != 3 {
		t.Errorf("unexpected slice %v", nz)
	}
	if s := rec.Slice(4, 99); s.Len() != 1 {
		t.Errorf("expected the slice to be clamped, got %d records", s.Len())
	}
	sig, err := s.Signal(NzColumn)
	if err != nil || sig.Len() != 2 || math.Abs(sig.Samples[0].Time-0.01) > 1e-9 {
		t.Errorf("unexpected signal %+v (%v)", sig, err)
	}
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		opts   CSVOptions
		values []float64
		times  []float64
	}{
		{
			name:   "time and value with header",
			input:  "time,nz\n0,1\n0.5,1.2\n1.0,0.9\n",
			values: []float64{1, 1.2, 0.9},
			times:  []float64{0, 0.5, 1},
		},
		{
			name:   "single column",
			input:  "1\n2\n1\n",
			opts:   CSVOptions{SampleInterval: 0.5},
			values: []float64{1, 2, 1},
			times:  []float64{0, 0.5, 1},
		},
		{
			name:   "value column",
			input:  "# flight 12\n0, 4, 1.1\n1, 5, 1.3\n",
			opts:   CSVOptions{ValueColumn: 2},
			values: []float64{1.1, 1.3},
			times:  []float64{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := ReadCSV(strings.NewReader(tt.input), tt.opts)
			if err != nil {
				t.Fatalf("ReadCSV: %v", err)
			}
			if sig.Len() != len(tt.values) {
				t.Fatalf("expected %d samples, got %d", len(tt.values), sig.Len())
			}
			for i, s := range sig.Samples {
				if s.Value != tt.values[i] || math.Abs(s.Time-tt.times[i]) > 1e-12 {
					t.Errorf("sample %d: expected %g at %g, got %+v", i, tt.values[i], tt.times[i], s)
				}
			}
		})
	}

	if _, err := ReadCSV(strings.NewReader("0,1\n1,x\n"), CSVOptions{}); !errors.Is(err, fatigue.ErrMalformedSignal) {
		t.Errorf("expected a malformed signal, got %v", err)
	}
}

// rawLine is a recording line without its clock: channels followed by 20
// characters the retime step discards
func rawLine(i int) string {
	s := fmt.Sprintf("%10.4f %10.4f %10.4f %10.4f %10.4f %10.4f", 0.1, 0.2, 0.3, float64(i), 0.5, 1+float64(i)/10)
	return s + strings.Repeat(" ", 120-len(s)) + strings.Repeat("9", 20)
}

func TestReconstructTimestamps(t *testing.T) {
	src := rawLine(0) + "\n" + rawLine(1) + "\n" + rawLine(2) + "\n" + "0.1 0.2"
	var dst bytes.Buffer

	stats, err := ReconstructTimestamps(strings.NewReader(src), &dst, DefaultRetimeStart, DefaultRetimeStep)
	if err != nil {
		t.Fatalf("ReconstructTimestamps: %v", err)
	}
	if stats.Records != 3 || !stats.TrailingDropped {
		t.Errorf("expected 3 records and a dropped tail, got %+v", stats)
	}
	if want := DefaultRetimeStart.Add(3 * DefaultRetimeStep); !stats.End.Equal(want) {
		t.Errorf("expected end %v, got %v", want, stats.End)
	}

	lines := strings.Split(strings.TrimSuffix(dst.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "01-06-1980 00:00:00.0100000  ") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	for i, l := range lines {
		if len(l) != RecordWidth || !strings.HasSuffix(l, " 4") || strings.Contains(l, "9999") {
			t.Errorf("line %d is not a clean record: %q", i, l)
		}
	}

	rec, err := ReadDat(&dst, DatOptions{Columns: []int{WzColumn, NzColumn}})
	if err != nil {
		t.Fatalf("restamped output does not parse: %v", err)
	}
	nz, _ := rec.Channel(NzColumn)
	if rec.Len() != 3 || nz[2] != 1.2 || math.Abs(rec.Times[2]-0.02) > 1e-9 {
		t.Errorf("unexpected recording %v / %v", nz, rec.Times)
	}
}

func TestIsRecordFile(t *testing.T) {
	dir := t.TempDir()
	stamped := filepath.Join(dir, "stamped.dat")
	raw := filepath.Join(dir, "raw.dat")
	os.WriteFile(stamped, []byte(datFile([]float64{1, 2}, "\r\n")), 0644)
	os.WriteFile(raw, []byte(rawLine(0)+"\n"), 0644)

	if ok, err := IsRecordFile(stamped); err != nil || !ok {
		t.Errorf("expected %s to be a record file (%v)", stamped, err)
	}
	if ok, err := IsRecordFile(raw); err != nil || ok {
		t.Errorf("expected %s to need restamping (%v)", raw, err)
	}
	if _, err := IsRecordFile(filepath.Join(dir, "missing.dat")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestGroundTrim(t *testing.T) {
	// ground, flight, ground
	values := make([]float64, 3000)
	for i := 1000; i < 2000; i++ {
		values[i] = 5
	}

	head, tail := GroundTrim(values, 10, 500, 1)
	if head != 502 || tail != 2506 {
		t.Errorf("expected cutoffs 502/2506, got %d/%d", head, tail)
	}

	flat := make([]float64, 2000)
	if head, tail := GroundTrim(flat, 10, 500, 1); head != 0 || tail != 2000 {
		t.Errorf("expected no trim for a flat record, got %d/%d", head, tail)
	}
	if head, tail := GroundTrim(values[:400], 10, 500, 1); head != 0 || tail != 400 {
		t.Errorf("expected no trim for a record shorter than the lag, got %d/%d", head, tail)
	}
}

func TestSourceLoad(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "flight.csv")
	os.WriteFile(csvPath, []byte("t,nz\n0,1\n0.01,1.4\n0.02,0.8\n"), 0644)
	sig, err := (&Source{}).Load(csvPath)
	if err != nil || sig.Len() != 3 {
		t.Fatalf("expected 3 CSV samples, got %v (%v)", sig, err)
	}

	datPath := filepath.Join(dir, "flight.dat")
	os.WriteFile(datPath, []byte(datFile([]float64{1, 1.2, 0.7, 1}, "\n")), 0644)
	src := &Source{GroundTrim: &TrimOptions{Lag: 2, Window: 1, Delta: 0.5}}
	sig, err = src.Load(datPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// wz is 0,1,2,3 so every point differs from its lag by 2
	if sig.Len() != 3 || sig.Samples[0].Value != 1 {
		t.Errorf("unexpected trimmed signal %+v", sig.Samples)
	}

	if _, err := (&Source{Format: "xlsx"}).Load(csvPath); err == nil {
		t.Errorf("expected an unknown format error")
	}
	if !Supported("a/B.DAT") || Supported("notes.md") {
		t.Errorf("unexpected Supported result")
	}
}
