package imu

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chrissnell/flightloads/internal/fatigue"
)

// DefaultSampleInterval is the logger period in seconds (100 Hz)
const DefaultSampleInterval = 0.01

// CSVOptions controls ReadCSV
type CSVOptions struct {
	// ValueColumn is the zero-based column holding the load when rows have
	// more than one column. Column 0 is then the time in seconds.
	ValueColumn int
	// SampleInterval builds the time base for single column files
	SampleInterval float64
}

// ReadCSV reads a load history from CSV. Rows are either "time,value[,...]"
// or a bare value. A leading header row is skipped.
func ReadCSV(r io.Reader, opts CSVOptions) (*fatigue.Signal, error) {
	interval := opts.SampleInterval
	if interval == 0 {
		interval = DefaultSampleInterval
	}
	valueCol := opts.ValueColumn
	if valueCol == 0 {
		valueCol = 1
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var values, times []float64
	row := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		row++

		if len(rec) == 1 {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
			if err != nil {
				if row == 1 {
					continue
				}
				return nil, &fatigue.MalformedSignalError{Index: len(values), Reason: fmt.Sprintf("row %d: %v", row, err)}
			}
			values = append(values, v)
			times = append(times, float64(len(times))*interval)
			continue
		}

		if valueCol >= len(rec) {
			return nil, &fatigue.MalformedSignalError{Index: len(values), Reason: fmt.Sprintf("row %d has no column %d", row, valueCol)}
		}
		t, terr := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		v, verr := strconv.ParseFloat(strings.TrimSpace(rec[valueCol]), 64)
		if terr != nil || verr != nil {
			if row == 1 {
				continue
			}
			return nil, &fatigue.MalformedSignalError{Index: len(values), Reason: fmt.Sprintf("row %d is not numeric", row)}
		}
		values = append(values, v)
		times = append(times, t)
	}

	return fatigue.NewSignal(values, times)
}
