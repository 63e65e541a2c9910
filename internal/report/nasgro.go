package report

import (
	"bufio"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// WritePeakValleyPairs writes reversals as peak/valley pairs with a
// repetition count of one, the spectrum layout NASGRO reads. Reversals are
// paired in order and an odd last one is dropped. A pair whose peak does not
// rise above the previous written valley is skipped. It returns the number of
// pairs written.
func WritePeakValleyPairs(w io.Writer, reversals []float64, logger *zap.SugaredLogger) (int, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("peak      valley    reps\n"); err != nil {
		return 0, err
	}

	pairs := len(reversals) / 2
	if pairs == 0 {
		return 0, bw.Flush()
	}
	swap := reversals[0] < reversals[1]

	written := 0
	lastValley := -999.0
	for i := 0; i < pairs; i++ {
		peak, valley := reversals[2*i], reversals[2*i+1]
		if swap {
			peak, valley = valley, peak
		}
		if peak <= lastValley {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%.7f %.7f 1\n", peak, valley); err != nil {
			return written, err
		}
		written++
		lastValley = valley

		if peak <= valley {
			logger.Warnw("pair is not a peak followed by a valley", "pair", i, "peak", peak, "valley", valley)
		}
	}

	return written, bw.Flush()
}
