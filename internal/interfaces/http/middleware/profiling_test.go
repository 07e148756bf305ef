package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labelsOf(ctx context.Context) map[string]string {
	out := map[string]string{}
	pprof.ForLabels(ctx, func(key, value string) bool {
		out[key] = value
		return true
	})
	return out
}

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.Contains(t, cfg.Skip, "/health")
	assert.Contains(t, cfg.Skip, "/metrics")
	assert.Contains(t, cfg.Skip, "/swagger/*")
}

func TestProfiling_Labels(t *testing.T) {
	var got map[string]string

	router := gin.New()
	router.Use(Profiling())
	router.GET("/api/v1/rooms/:id", func(c *gin.Context) {
		got = labelsOf(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms/42", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GET", got["method"])
	assert.Equal(t, "/api/v1/rooms/:id", got["route"])
	assert.Equal(t, "rooms", got["controller"])
	assert.NotContains(t, got, "role")
}

func TestProfiling_AddsRoleAfterAuth(t *testing.T) {
	jwtService := newTestJWTService()
	pair, _ := newTestTokenPair(t, jwtService, shared.RoleAdmin)
	var got map[string]string

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService), Profiling())
	router.POST("/api/v1/bookings/:id/approve", func(c *gin.Context) {
		got = labelsOf(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/1/approve", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ADMIN", got["role"])
	assert.Equal(t, "bookings", got["controller"])
	assert.Equal(t, "POST", got["method"])
}

func TestProfiling_SkipPaths(t *testing.T) {
	tests := []struct {
		name  string
		route string
		path  string
	}{
		{"health", "/health", "/health"},
		{"metrics", "/metrics", "/metrics"},
		{"swagger prefix", "/swagger/*any", "/swagger/index.html"},
		{"api docs", "/api/docs", "/api/docs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]string
			router := gin.New()
			router.Use(Profiling())
			router.GET(tt.route, func(c *gin.Context) {
				got = labelsOf(c.Request.Context())
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, got)
		})
	}
}

func TestProfiling_Disabled(t *testing.T) {
	var got map[string]string
	router := gin.New()
	router.Use(ProfilingWithConfig(ProfilingConfig{Enabled: false}))
	router.GET("/api/v1/rooms", func(c *gin.Context) {
		got = labelsOf(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, got)
}

func TestProfiling_PreservesContextValues(t *testing.T) {
	type key struct{}
	var value any

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), key{}, "kept"))
		c.Next()
	})
	router.Use(Profiling())
	router.GET("/api/v1/notices", func(c *gin.Context) {
		value = c.Request.Context().Value(key{})
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/notices", nil))

	assert.Equal(t, "kept", value)
}

func TestExtractControllerFromRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/api/v1/rooms", "rooms"},
		{"/api/v1/rooms/:id", "rooms"},
		{"/api/v1/rooms/:id/occupants", "rooms"},
		{"/api/v2/complaints/:id/attachments", "complaints"},
		{"/api/v1/files/*path", "files"},
		{"/health", "health"},
		{"/api/v1", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			assert.Equal(t, tt.want, extractControllerFromRoute(tt.route))
		})
	}
}

func TestIsVersionSegment(t *testing.T) {
	assert.True(t, isVersionSegment("v1"))
	assert.True(t, isVersionSegment("V12"))
	assert.False(t, isVersionSegment("v"))
	assert.False(t, isVersionSegment("vx"))
	assert.False(t, isVersionSegment("rooms"))
}
