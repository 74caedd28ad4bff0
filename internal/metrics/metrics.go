// Package metrics exposes Prometheus instrumentation for the API: request
// counts and latencies by route pattern, list cache efficiency, login
// outcomes and contact notification delivery.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"portfolio/internal/middleware"
)

var (
	// HTTPRequests counts requests by method, route pattern and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// HTTPDuration records request latency by method and route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portfolio_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ListCache counts list cache lookups by kind and result (hit|miss), and
	// fills dropped because the list changed meanwhile (stale).
	ListCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_list_cache_lookups_total",
		Help: "List cache lookups by kind and result",
	}, []string{"kind", "result"})

	// Logins counts login attempts by method (google|password) and outcome.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_logins_total",
		Help: "Login attempts by method and outcome",
	}, []string{"method", "outcome"})

	// Notifications counts contact notifications by result (sent|failed).
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_notifications_total",
		Help: "Contact notifications by result",
	}, []string{"result"})
)

// unmatched labels requests no route matched, keeping label cardinality
// bounded.
const unmatched = "unmatched"

// Middleware records HTTPRequests and HTTPDuration. The route label is the
// chi route pattern, read after the handler ran so subrouters are resolved.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := middleware.NewStatusRecorder(w)
		next.ServeHTTP(rec, r)

		route := unmatched
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.Status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
