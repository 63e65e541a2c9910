package imu

import (
	"math"
)

// Ground trim defaults: a 10 sample running mean compared 5 s apart at 100 Hz
const (
	DefaultTrimWindow = 10
	DefaultTrimLag    = 500
	DefaultTrimDelta  = 1.0
)

// TrimOptions configures GroundTrim
type TrimOptions struct {
	Column int // channel compared, WzColumn when zero
	Window int
	Lag    int
	Delta  float64
}

func (o TrimOptions) withDefaults() TrimOptions {
	if o.Column == 0 {
		o.Column = WzColumn
	}
	if o.Window <= 0 {
		o.Window = DefaultTrimWindow
	}
	if o.Lag <= 0 {
		o.Lag = DefaultTrimLag
	}
	if o.Delta <= 0 {
		o.Delta = DefaultTrimDelta
	}
	return o
}

// GroundTrim finds the airborne part of a recording. The running mean of
// values is compared with itself lag samples ahead (for the head) and behind
// (for the tail); the first and last points where they differ by more than
// delta bound the flight. The flight is values[head:tail]. When no such
// points exist the whole record is kept.
func GroundTrim(values []float64, window, lag int, delta float64) (head, tail int) {
	n := len(values)
	if window < 1 || lag < 1 || n <= lag {
		return 0, n
	}
	rm := runningMean(values, window)

	head = -1
	for i := 0; i+lag < n; i++ {
		if math.Abs(rm[i]-rm[i+lag]) > delta {
			head = i
			break
		}
	}
	tail = -1
	for j := n - 1; j-lag >= 0; j-- {
		if math.Abs(rm[j]-rm[j-lag]) > delta {
			tail = j
			break
		}
	}

	if head < 0 || tail < 0 || head >= tail {
		return 0, n
	}
	return head, tail
}

// runningMean is the trailing mean over window samples; the first window-1
// points average what is available so far
func runningMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// TrimRecording applies GroundTrim to rec using the channel in opts.Column
func TrimRecording(rec *Recording, opts TrimOptions) (*Recording, int, int, error) {
	opts = opts.withDefaults()
	values, err := rec.Channel(opts.Column)
	if err != nil {
		return nil, 0, 0, err
	}
	head, tail := GroundTrim(values, opts.Window, opts.Lag, opts.Delta)
	return rec.Slice(head, tail), head, tail, nil
}
