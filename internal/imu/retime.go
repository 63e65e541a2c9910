package imu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Recordings without timestamps are restamped from this instant at the
// logger rate
var (
	DefaultRetimeStart = time.Date(1980, time.June, 1, 0, 0, 0, 0, time.UTC)
	DefaultRetimeStep  = 10 * time.Millisecond
)

const (
	retimeTrim   = 20  // trailing characters removed from every raw line
	retimeMarker = "4" // channel marker appended to every line
)

// RetimeStats summarises a ReconstructTimestamps run
type RetimeStats struct {
	Records         int
	TrailingDropped bool
	End             time.Time
}

// ReconstructTimestamps rewrites a raw recording that lost its clock. Each
// line gets a timestamp (start plus one step for the first line and one more
// per line), loses its last 20 characters and gains a trailing channel
// marker. A final line that does not make a full width record is dropped.
func ReconstructTimestamps(src io.Reader, dst io.Writer, start time.Time, step time.Duration) (RetimeStats, error) {
	var stats RetimeStats

	br := bufio.NewReader(src)
	bw := bufio.NewWriter(dst)
	t := start

	var pending string
	havePending := false
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if havePending {
				if _, werr := bw.WriteString(pending + "\n"); werr != nil {
					return stats, werr
				}
				stats.Records++
			}
			t = t.Add(step)
			pending = retimeLine(t, line)
			havePending = true
			stats.End = t
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read recording: %w", err)
		}
	}

	if havePending {
		if len(pending) < RecordWidth {
			stats.TrailingDropped = true
			stats.End = stats.End.Add(-step)
		} else {
			if _, err := bw.WriteString(pending + "\n"); err != nil {
				return stats, err
			}
			stats.Records++
		}
	}

	return stats, bw.Flush()
}

func retimeLine(t time.Time, raw string) string {
	raw = strings.TrimRight(raw, "\r\n")
	if len(raw) > retimeTrim {
		raw = raw[:len(raw)-retimeTrim]
	} else {
		raw = ""
	}
	return fmt.Sprintf("%s0  %s %s", t.Format(TimestampLayout), raw, retimeMarker)
}

// IsRecordFile reports whether the first line of path is a full width
// timestamped record, i.e. the file needs no reconstruction
func IsRecordFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return len(strings.TrimRight(line, "\r\n")) == RecordWidth, nil
}
