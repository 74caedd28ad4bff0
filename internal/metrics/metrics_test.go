package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/blog/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := counterValue(t, HTTPRequests.WithLabelValues("GET", "/api/blog/{id}", "404"))
	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/blog/"+id, nil))
	}
	after := counterValue(t, HTTPRequests.WithLabelValues("GET", "/api/blog/{id}", "404"))

	assert.Equal(t, 3.0, after-before, "all ids share one route label")
}

func TestMiddlewareUnmatched(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})

	before := counterValue(t, HTTPRequests.WithLabelValues("GET", unmatched, "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	after := counterValue(t, HTTPRequests.WithLabelValues("GET", unmatched, "404"))

	assert.Equal(t, 1.0, after-before)
}

func TestHandlerExposesMetrics(t *testing.T) {
	Logins.WithLabelValues("password", "success").Inc()

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "portfolio_logins_total"))
}
