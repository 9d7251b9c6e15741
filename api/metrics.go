package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civicpulse_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "civicpulse_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// ClassifierFallbacksTotal counts classify calls answered by the offline
	// rule table
	ClassifierFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "civicpulse_classifier_fallbacks_total",
			Help: "Total number of classifications answered by the offline rules",
		},
	)

	// SelectorModeTransitions counts rendering mode selections per view
	SelectorModeTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civicpulse_selector_renders_total",
			Help: "Total renders served, by view and mode",
		},
		[]string{"view", "mode"},
	)

	// SnapshotSavesTotal counts offline snapshot captures
	SnapshotSavesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "civicpulse_snapshot_saves_total",
			Help: "Total number of offline snapshots written",
		},
	)
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// routeLabel returns the mux route template so path parameters never mint new
// label series
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// MetricsMiddleware records request counts and latencies for prometheus
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := routeLabel(r)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
