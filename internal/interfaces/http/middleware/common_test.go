package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates request ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.NotEmpty(t, w.Body.String())
	})

	t.Run("replaces oversized request ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("a", 200))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get("X-Request-ID"), 36)
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "test-request-id")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "test-request-id", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "test-request-id", w.Body.String())
	})
}

func TestSecure(t *testing.T) {
	serve := func(mw gin.HandlerFunc, path string) http.Header {
		router := gin.New()
		router.Use(mw)
		router.GET("/*any", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Header()
	}

	t.Run("development", func(t *testing.T) {
		h := serve(Secure(), "/api/v1/rooms")
		assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
		assert.Equal(t, "no-referrer", h.Get("Referrer-Policy"))
		assert.Contains(t, h.Get("Content-Security-Policy"), "default-src 'none'")
		assert.Contains(t, h.Get("Permissions-Policy"), "camera=()")
		assert.Empty(t, h.Get("Strict-Transport-Security"))
	})

	t.Run("production adds HSTS", func(t *testing.T) {
		h := serve(SecureWithConfig(DefaultSecurityConfig(true)), "/api/v1/rooms")
		assert.Equal(t, "max-age=31536000; includeSubDomains", h.Get("Strict-Transport-Security"))
	})

	t.Run("preload", func(t *testing.T) {
		h := serve(SecureWithConfig(SecurityConfig{HSTSMaxAge: time.Hour, HSTSPreload: true}), "/")
		assert.Equal(t, "max-age=3600; includeSubDomains; preload", h.Get("Strict-Transport-Security"))
	})

	t.Run("swagger UI has no CSP", func(t *testing.T) {
		h := serve(Secure(), "/swagger/index.html")
		assert.Empty(t, h.Get("Content-Security-Policy"))
		assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	})

	t.Run("empty config keeps the basics", func(t *testing.T) {
		h := serve(SecureWithConfig(SecurityConfig{}), "/health")
		assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
		assert.Empty(t, h.Get("Content-Security-Policy"))
		assert.Empty(t, h.Get("Permissions-Policy"))
	})
}

func TestTimeout(t *testing.T) {
	t.Run("handler sees the deadline", func(t *testing.T) {
		router := gin.New()
		router.Use(Timeout(time.Second))
		router.GET("/test", func(c *gin.Context) {
			_, ok := c.Request.Context().Deadline()
			assert.True(t, ok)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("silent handler past the deadline gets 503", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID(), Timeout(10*time.Millisecond))
		router.GET("/test", func(c *gin.Context) {
			<-c.Request.Context().Done()
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TIMEOUT")
	})

	t.Run("zero disables", func(t *testing.T) {
		router := gin.New()
		router.Use(Timeout(0))
		router.GET("/test", func(c *gin.Context) {
			_, ok := c.Request.Context().Deadline()
			assert.False(t, ok)
			assert.NoError(t, c.Request.Context().Err())
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil).WithContext(context.Background()))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
