// Package imu reads flight recordings into fatigue signals.
//
// IMU .dat files hold one whitespace separated record per line: a date
// column, a time column and the sensor channels. Column numbers used by this
// package count the date as column 0 and the time as column 1.
package imu

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chrissnell/flightloads/internal/fatigue"
)

const (
	// RecordWidth is the length of a complete record, excluding the line
	// terminator
	RecordWidth = 151

	// NzColumn holds the vertical load factor
	NzColumn = 7
	// WzColumn holds the yaw rate used to detect time on the ground
	WzColumn = 4

	// TimestampLayout is the date and time written by the logger. The
	// recorder appends one extra digit to the fraction.
	TimestampLayout = "02-01-2006 15:04:05.000000"

	// any fraction length is accepted when parsing
	parseLayout = "02-01-2006 15:04:05"
)

// DatOptions controls ReadDat
type DatOptions struct {
	// Columns to keep; NzColumn when empty
	Columns []int
	// Expected record width; 0 means RecordWidth, negative disables the check
	RecordWidth int
	// Name identifies the source in log messages
	Name   string
	Logger *zap.SugaredLogger
}

// Recording is the parsed content of an IMU file
type Recording struct {
	Start    time.Time
	Times    []float64 // seconds since Start
	Channels map[int][]float64
	// TrailingDropped is set when an incomplete last record was skipped
	TrailingDropped bool
}

// Len returns the number of records
func (r *Recording) Len() int {
	return len(r.Times)
}

// Channel returns the values of column col
func (r *Recording) Channel(col int) ([]float64, error) {
	v, ok := r.Channels[col]
	if !ok {
		return nil, fmt.Errorf("column %d was not read", col)
	}
	return v, nil
}

// Signal builds a fatigue signal from column col
func (r *Recording) Signal(col int) (*fatigue.Signal, error) {
	v, err := r.Channel(col)
	if err != nil {
		return nil, err
	}
	return fatigue.NewSignal(v, r.Times)
}

// Slice returns the records in [head, tail). Times stay relative to Start.
func (r *Recording) Slice(head, tail int) *Recording {
	head = max(0, min(head, r.Len()))
	tail = max(head, min(tail, r.Len()))

	out := &Recording{
		Start:           r.Start,
		Times:           r.Times[head:tail],
		Channels:        make(map[int][]float64, len(r.Channels)),
		TrailingDropped: r.TrailingDropped,
	}
	for col, v := range r.Channels {
		out.Channels[col] = v[head:tail]
	}
	return out
}

// ReadDat parses an IMU recording. A last record shorter than the record
// width is dropped with a warning; the source is never modified.
func ReadDat(r io.Reader, opts DatOptions) (*Recording, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	cols := opts.Columns
	if len(cols) == 0 {
		cols = []int{NzColumn}
	}
	width := opts.RecordWidth
	if width == 0 {
		width = RecordWidth
	}
	need := 2
	for _, c := range cols {
		if c < 2 {
			return nil, fmt.Errorf("column %d is part of the timestamp", c)
		}
		need = max(need, c+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", opts.Name, err)
	}

	lines := splitLines(data)
	rec := &Recording{Channels: make(map[int][]float64, len(cols))}
	if n := len(lines); n > 0 && incomplete(lines[n-1], width, need) {
		logger.Warnw("dropping incomplete trailing record",
			"source", opts.Name,
			"line", n,
			"length", len(lines[n-1]))
		lines = lines[:n-1]
		rec.TrailingDropped = true
	}

	for _, c := range cols {
		rec.Channels[c] = make([]float64, 0, len(lines))
	}
	rec.Times = make([]float64, 0, len(lines))

	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < need {
			return nil, &fatigue.MalformedSignalError{Index: i, Reason: fmt.Sprintf("record has %d columns, need %d", len(fields), need)}
		}

		ts, err := time.Parse(parseLayout, fields[0]+" "+trimFraction(fields[1]))
		if err != nil {
			return nil, &fatigue.MalformedSignalError{Index: i, Reason: fmt.Sprintf("bad timestamp: %v", err)}
		}
		if i == 0 {
			rec.Start = ts
		}
		rec.Times = append(rec.Times, ts.Sub(rec.Start).Seconds())

		for _, c := range cols {
			v, err := strconv.ParseFloat(fields[c], 64)
			if err != nil {
				return nil, &fatigue.MalformedSignalError{Index: i, Reason: fmt.Sprintf("column %d: %v", c, err)}
			}
			rec.Channels[c] = append(rec.Channels[c], v)
		}
	}

	logger.Debugw("read recording", "source", opts.Name, "records", rec.Len())
	return rec, nil
}

// splitLines returns the non-empty lines of data without terminators
func splitLines(data []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), len(data)+1)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func incomplete(line string, width, need int) bool {
	if width > 0 && len(line) < width {
		return true
	}
	return len(strings.Fields(line)) < need
}

// trimFraction drops the extra trailing digit of the seconds fraction
func trimFraction(clock string) string {
	if dot := strings.IndexByte(clock, '.'); dot >= 0 && len(clock)-dot-1 > 6 {
		return clock[:len(clock)-1]
	}
	return clock
}
