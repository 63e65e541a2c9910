// Package fleet analyses many flight recordings in parallel and sums their
// exceedance curves and damage.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chrissnell/flightloads/internal/fatigue"
	"github.com/chrissnell/flightloads/internal/imu"
	"github.com/chrissnell/flightloads/internal/metrics"
)

// Loader turns a file into a signal
type Loader interface {
	Load(path string) (*fatigue.Signal, error)
}

// Runner analyses a batch of flights
type Runner struct {
	Loader Loader
	Config fatigue.Config
	// Coefficients are shared read-only by every worker; nil skips damage
	Coefficients *fatigue.MaterialCoefficients
	Workers      int
	Metrics      *metrics.Metrics
	Logger       *zap.SugaredLogger
}

// FlightResult is the outcome for one file. Result is nil when Err is set.
type FlightResult struct {
	Path     string
	Result   *fatigue.Result
	Duration time.Duration
	Err      error
	// Discarded flights exceeded the maximum load factor and are left out
	// of the fleet totals
	Discarded bool
	// Skipped flights were never started because the batch was cancelled
	Skipped bool
}

// Summary aggregates a batch
type Summary struct {
	Flights          []FlightResult
	Exceedance       fatigue.LevelCrossingProfile
	TotalDamage      float64
	DamageIncomplete bool
	Analyzed         int
	Discarded        int
	Failed           int
	Skipped          int
}

// Discover lists the readable flight files under root in lexical order. A
// file root is returned as is.
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root && !d.IsDir() {
			paths = append(paths, path)
			return nil
		}
		if !d.IsDir() && imu.Supported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Run analyses every path. Flights run in parallel up to Workers at a time;
// cancellation is checked before each flight starts, never inside one. A
// failing flight is recorded and does not stop the batch. The returned error
// is ctx.Err() when the batch was cut short, in which case the summary covers
// the flights that finished.
func (r *Runner) Run(ctx context.Context, paths []string) (*Summary, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if err := r.Config.Validate(); err != nil {
		return nil, err
	}

	results := make([]FlightResult, len(paths))

	var g errgroup.Group
	if r.Workers > 0 {
		g.SetLimit(r.Workers)
	}
	for i, path := range paths {
		results[i].Path = path
		if ctx.Err() != nil {
			results[i].Skipped = true
			results[i].Err = ctx.Err()
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Skipped = true
				results[i].Err = err
				return nil
			}
			results[i] = r.analyze(path, logger)
			return nil
		})
	}
	g.Wait()

	summary, err := r.summarize(results, logger)
	if err != nil {
		return summary, err
	}
	return summary, ctx.Err()
}

func (r *Runner) analyze(path string, logger *zap.SugaredLogger) FlightResult {
	start := time.Now()
	fr := FlightResult{Path: path}

	signal, err := r.Loader.Load(path)
	if err == nil {
		fr.Result, err = fatigue.Analyze(signal, r.Config, r.Coefficients)
	}
	fr.Duration = time.Since(start)

	if err != nil {
		fr.Err = err
		fr.Result = nil
		logger.Errorw("flight analysis failed", "path", path, "error", err)
		if r.Metrics != nil {
			r.Metrics.FlightsFailed.Inc()
		}
		return fr
	}

	res := fr.Result
	if r.Metrics != nil {
		r.Metrics.ObserveAnalysis(fr.Duration, res.Cycles.TotalWeight(), len(res.Damage.DomainErrors))
	}
	if res.Damage.Incomplete {
		logger.Warnw("damage is incomplete", "path", path, "domain_errors", len(res.Damage.DomainErrors))
	}
	if res.Exceeded {
		fr.Discarded = true
		logger.Warnw("discarding flight above the maximum load factor",
			"path", path,
			"peak_load", res.PeakLoad,
			"max_load_factor", r.Config.MaxLoadFactor)
		if r.Metrics != nil {
			r.Metrics.FlightsDiscarded.Inc()
		}
		return fr
	}

	logger.Infow("flight analysed",
		"path", path,
		"cycles", res.Cycles.TotalWeight(),
		"damage", res.Damage.Total,
		"duration", fr.Duration)
	return fr
}

// summarize runs once every flight is done; exceedance curves are padded to
// the widest and summed here
func (r *Runner) summarize(results []FlightResult, logger *zap.SugaredLogger) (*Summary, error) {
	s := &Summary{Flights: results}

	var profiles []fatigue.LevelCrossingProfile
	for _, fr := range results {
		switch {
		case fr.Skipped:
			s.Skipped++
		case fr.Err != nil:
			s.Failed++
		case fr.Discarded:
			s.Discarded++
		default:
			s.Analyzed++
			profiles = append(profiles, fr.Result.Exceedance)
			if fr.Result.DamageAvailable {
				s.TotalDamage += fr.Result.Damage.Total
				s.DamageIncomplete = s.DamageIncomplete || fr.Result.Damage.Incomplete
			}
		}
	}

	exceedance, err := fatigue.AggregateProfiles(profiles...)
	if err != nil {
		return s, fmt.Errorf("failed to aggregate exceedance: %w", err)
	}
	if len(profiles) == 0 {
		exceedance.Baseline = r.Config.Baseline
		exceedance.LevelWidth = r.Config.ExceedanceBinSize
	}
	s.Exceedance = exceedance

	logger.Infow("fleet analysis complete",
		"analyzed", s.Analyzed,
		"discarded", s.Discarded,
		"failed", s.Failed,
		"skipped", s.Skipped,
		"total_damage", s.TotalDamage)
	return s, nil
}

// Errors returns the failures of a summary, skipped flights excluded
func (s *Summary) Errors() error {
	var errs []error
	for _, fr := range s.Flights {
		if fr.Err != nil && !fr.Skipped {
			errs = append(errs, fmt.Errorf("%s: %w", fr.Path, fr.Err))
		}
	}
	return errors.Join(errs...)
}
