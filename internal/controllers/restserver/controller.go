// Package restserver serves the material library and on-demand analysis over HTTP.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chrissnell/flightloads/internal/log"
	"github.com/chrissnell/flightloads/internal/material"
	"github.com/chrissnell/flightloads/internal/metrics"
	"github.com/chrissnell/flightloads/pkg/config"
)

// maxBodyBytes bounds the size of an /analyze request
const maxBodyBytes = 64 << 20

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.ServerData
	Server     http.Server
	// analysis holds the defaults that /analyze requests override
	analysis config.AnalysisData
	// selection names the material used when a request names none
	selection config.MaterialData

	store    *material.Store
	metrics  *metrics.Metrics
	logger   *zap.SugaredLogger
	handlers *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.ConfigData, store *material.Store, m *metrics.Metrics, logger *zap.SugaredLogger) (*Controller, error) {
	if store == nil {
		return nil, fmt.Errorf("REST server needs a material library")
	}
	if m == nil {
		m = metrics.New()
	}

	rc := cfg.Server
	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: rc,
		analysis:   cfg.Analysis,
		selection:  cfg.Material,
		store:      store,
		metrics:    m,
		logger:     logger,
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if rc.ListenAddr == "" {
		logger.Info("server.listen-addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		rc.ListenAddr = "0.0.0.0"
	}

	// Set default HTTP port if not specified
	if rc.Port == 0 {
		logger.Info("server.port not provided; defaulting to 8080")
		rc.Port = config.DefaultPort
	}

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", rc.ListenAddr, rc.Port)
	ctrl.Server.Handler = ctrl.setupRouter()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// Handler returns the routed HTTP handler
func (c *Controller) Handler() http.Handler {
	return c.Server.Handler
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	c.logger.Infof("Starting REST server on %s...", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.restConfig.Cert != "" && c.restConfig.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.restConfig.Cert, c.restConfig.Key); err != http.ErrServerClosed {
				c.logger.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				c.logger.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		c.logger.Info("Shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(log.HTTPMiddleware(c.logger, c.observeRequest))

	router.HandleFunc("/healthz", c.handlers.GetHealth).Methods(http.MethodGet)
	router.Handle("/metrics", c.metrics.Handler()).Methods(http.MethodGet)

	router.HandleFunc("/materials", c.handlers.GetMaterials).Methods(http.MethodGet)
	router.HandleFunc("/materials/{material}", c.handlers.GetMaterial).Methods(http.MethodGet)
	router.HandleFunc("/materials/{material}/{condition}", c.handlers.GetCondition).Methods(http.MethodGet)

	router.HandleFunc("/analyze", c.handlers.PostAnalyze).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(c.handlers.NotFound)
	return router
}

// observeRequest counts requests by route template so material names do
// not become label values
func (c *Controller) observeRequest(req *http.Request, status int, _ time.Duration) {
	route := "unmatched"
	if r := mux.CurrentRoute(req); r != nil {
		if tmpl, err := r.GetPathTemplate(); err == nil {
			route = tmpl
		}
	}
	c.metrics.ObserveRequest(route, status)
}
