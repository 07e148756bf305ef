package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricsRouter(m *HTTPMetrics) *gin.Engine {
	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/v1/rooms/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))
	return router
}

func TestHTTPMetrics_RecordsRouteTemplate(t *testing.T) {
	m := NewHTTPMetrics(HTTPMetricsConfig{Registry: prometheus.NewRegistry(), Namespace: "test", Enabled: true})
	router := newMetricsRouter(m)

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	count := testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/api/v1/rooms/:id", "200"))
	assert.Equal(t, float64(2), count)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.activeRequests))
}

func TestHTTPMetrics_UnmatchedRoute(t *testing.T) {
	m := NewHTTPMetrics(HTTPMetricsConfig{Namespace: "test", Enabled: true})
	router := newMetricsRouter(m)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	count := testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "unmatched", "404"))
	assert.Equal(t, float64(1), count)
}

func TestHTTPMetrics_Exposition(t *testing.T) {
	m := NewHTTPMetrics(HTTPMetricsConfig{Namespace: "test", Enabled: true})
	router := newMetricsRouter(m)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms/x", nil))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "test_http_requests_total"))
	assert.True(t, strings.Contains(body, "test_http_request_duration_seconds_bucket"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

func TestHTTPMetrics_Disabled(t *testing.T) {
	m := NewHTTPMetrics(HTTPMetricsConfig{Namespace: "test", Enabled: false})
	router := newMetricsRouter(m)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/api/v1/rooms/:id", "200")))
}
