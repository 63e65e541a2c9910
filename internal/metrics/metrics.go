// Package metrics exposes analysis counters on a private Prometheus registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "flightloads"

// Metrics holds the collectors shared by the batch runner and the API
type Metrics struct {
	registry *prometheus.Registry

	FlightsAnalyzed  prometheus.Counter
	FlightsDiscarded prometheus.Counter
	FlightsFailed    prometheus.Counter
	CyclesCounted    prometheus.Counter
	DomainErrors     prometheus.Counter
	AnalysisDuration prometheus.Histogram
	HTTPRequests     *prometheus.CounterVec
}

// New builds a Metrics with its own registry, including the Go runtime and
// process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FlightsAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_analyzed_total",
			Help:      "Flights that completed the analysis pipeline.",
		}),
		FlightsDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_discarded_total",
			Help:      "Flights left out of the fleet totals because the maximum load factor was exceeded.",
		}),
		FlightsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_failed_total",
			Help:      "Flights that could not be read or analysed.",
		}),
		CyclesCounted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_counted_total",
			Help:      "Weighted rainflow cycles counted.",
		}),
		DomainErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "damage_domain_errors_total",
			Help:      "Matrix cells whose cycles-to-failure was undefined.",
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent reading and analysing one flight.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by route and status code.",
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.FlightsAnalyzed,
		m.FlightsDiscarded,
		m.FlightsFailed,
		m.CyclesCounted,
		m.DomainErrors,
		m.AnalysisDuration,
		m.HTTPRequests,
	)
	return m
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveAnalysis records one analysed flight
func (m *Metrics) ObserveAnalysis(d time.Duration, cycles float64, domainErrors int) {
	m.FlightsAnalyzed.Inc()
	m.CyclesCounted.Add(cycles)
	m.DomainErrors.Add(float64(domainErrors))
	m.AnalysisDuration.Observe(d.Seconds())
}

// ObserveRequest counts one API request
func (m *Metrics) ObserveRequest(route string, status int) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
