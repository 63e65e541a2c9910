package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("scrape returned %d", rec.Code)
	}
	return rec.Body.String()
}

func TestObserveAnalysis(t *testing.T) {
	m := New()
	m.ObserveAnalysis(20*time.Millisecond, 12.5, 2)
	m.ObserveAnalysis(10*time.Millisecond, 0.5, 0)
	m.FlightsDiscarded.Inc()

	body := scrape(t, m)
	for _, want := range []string{
		"flightloads_flights_analyzed_total 2",
		"flightloads_cycles_counted_total 13",
		"flightloads_damage_domain_errors_total 2",
		"flightloads_flights_discarded_total 1",
		"flightloads_flights_failed_total 0",
		"flightloads_analysis_duration_seconds_count 2",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output is missing %q", want)
		}
	}
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("/materials", http.StatusOK)
	m.ObserveRequest("/materials", http.StatusOK)
	m.ObserveRequest("/analyze", http.StatusBadRequest)

	body := scrape(t, m)
	for _, want := range []string{
		`flightloads_http_requests_total{code="200",route="/materials"} 2`,
		`flightloads_http_requests_total{code="400",route="/analyze"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output is missing %q", want)
		}
	}
}
