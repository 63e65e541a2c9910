// Package app wires configuration, the material library, the batch runner
// and the REST server together.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/chrissnell/flightloads/internal/controllers/restserver"
	"github.com/chrissnell/flightloads/internal/fatigue"
	"github.com/chrissnell/flightloads/internal/fleet"
	"github.com/chrissnell/flightloads/internal/imu"
	"github.com/chrissnell/flightloads/internal/log"
	"github.com/chrissnell/flightloads/internal/material"
	"github.com/chrissnell/flightloads/internal/metrics"
	"github.com/chrissnell/flightloads/internal/report"
	"github.com/chrissnell/flightloads/pkg/config"
)

// App represents the main application
type App struct {
	cfg     *config.ConfigData
	metrics *metrics.Metrics
	logger  *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:     cfg,
		metrics: metrics.New(),
		logger:  logger,
	}
}

// OpenLibrary loads the configured material library into a store. The
// provider is returned so it can be watched and must be closed by the caller.
func (a *App) OpenLibrary() (*material.Store, material.Provider, error) {
	p, err := material.Open(a.cfg.Material.Backend, a.cfg.Material.Source)
	if err != nil {
		return nil, nil, err
	}
	lib, err := p.Load()
	if err != nil {
		p.Close()
		return nil, nil, fmt.Errorf("failed to load material library: %w", err)
	}
	a.logger.Infow("material library loaded", "materials", lib.Len(), "source", a.cfg.Material.Source)
	return material.NewStore(lib), p, nil
}

// coefficients resolves the configured material. A missing selection or a
// placeholder entry disables damage; an unknown material is an error.
func (a *App) coefficients(store *material.Store) (*fatigue.MaterialCoefficients, error) {
	sel := a.cfg.Material
	if sel.Material == "" {
		a.logger.Warn("no material selected; damage will not be computed")
		return nil, nil
	}
	k, err := store.Lookup(sel.Material, sel.Condition)
	var noData *material.NoDataError
	switch {
	case err == nil:
		return &k, nil
	case errors.As(err, &noData):
		a.logger.Warnw("material has no S-N data; damage will not be computed", "material", sel.Material, "condition", sel.Condition)
		return nil, nil
	default:
		return nil, err
	}
}

// source builds the file loader from the input settings
func (a *App) source() *imu.Source {
	in := a.cfg.Input
	src := &imu.Source{
		Format:         in.Format,
		LoadColumn:     in.LoadColumn,
		SampleInterval: in.SampleInterval,
		Logger:         log.Named("imu"),
	}
	if gt := in.GroundTrim; gt.Enabled {
		src.GroundTrim = &imu.TrimOptions{
			Column: gt.Column,
			Window: gt.Window,
			Lag:    gt.Lag,
			Delta:  gt.Delta,
		}
	}
	return src
}

// Analyze runs every flight under input and writes per-flight and fleet
// reports into the output directory. SIGINT and SIGTERM stop the batch
// between flights; the flights already done are still reported.
func (a *App) Analyze(ctx context.Context, input string) (*fleet.Summary, error) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fc, err := a.cfg.Analysis.FatigueConfig()
	if err != nil {
		return nil, err
	}

	store, p, err := a.OpenLibrary()
	if err != nil {
		return nil, err
	}
	defer p.Close()

	coeffs, err := a.coefficients(store)
	if err != nil {
		return nil, err
	}

	paths, err := fleet.Discover(input)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no flight files found under %s", input)
	}
	a.logger.Infow("starting batch", "flights", len(paths), "workers", a.cfg.Input.Workers)

	src := a.source()
	runner := &fleet.Runner{
		Loader:       src,
		Config:       fc,
		Coefficients: coeffs,
		Workers:      a.cfg.Input.Workers,
		Metrics:      a.metrics,
		Logger:       log.Named("fleet"),
	}
	summary, runErr := runner.Run(ctx, paths)
	if summary == nil {
		return nil, runErr
	}

	if err := a.writeReports(summary, src, input); err != nil {
		return summary, err
	}
	return summary, runErr
}

func (a *App) writeReports(s *fleet.Summary, src *imu.Source, root string) error {
	runID := report.NewRunID()
	out := a.cfg.Output.Dir
	sel := a.cfg.Material

	paths := make([]string, len(s.Flights))
	for i, fr := range s.Flights {
		paths[i] = fr.Path
	}
	names := report.FlightBaseNames(root, paths)

	for _, fr := range s.Flights {
		if fr.Result == nil {
			continue
		}
		// reload the signal for its statistics; results do not keep samples
		sig, err := src.Load(fr.Path)
		if err != nil {
			return err
		}
		base := names[fr.Path]
		fs := report.NewFlightSummary(runID, fr.Path, sig, fr.Result, sel.Material, sel.Condition)
		if _, err := report.WriteFlight(filepath.Join(out, base), base, fs, fr.Result, a.cfg.Output.WriteCycles); err != nil {
			return err
		}
	}

	if err := report.WriteFleet(out, report.NewFleetSummary(runID, s, sel.Material, sel.Condition)); err != nil {
		return err
	}
	a.logger.Infow("reports written", "dir", out, "run_id", runID)
	return nil
}

// Run starts the REST server (and the material library watcher when
// enabled) and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store, p, err := a.OpenLibrary()
	if err != nil {
		return err
	}
	defer p.Close()

	if a.cfg.Material.Watch && a.cfg.Material.Source != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := material.Watch(ctx, a.cfg.Material.Source, p, store, log.Named("material")); err != nil {
				a.logger.Errorf("material watcher stopped: %v", err)
			}
		}()
	}

	ctrl, err := restserver.NewController(ctx, &wg, a.cfg, store, a.metrics, log.Named("rest"))
	if err != nil {
		return err
	}
	if err := ctrl.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")
	return nil
}
