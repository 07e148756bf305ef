package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the gin context key holding the request ID; logger.GinMiddleware
// reads the same key.
const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestID adds a unique request ID to each request. A client supplied ID is
// kept when it is short enough to be a sane log field.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the request ID of c
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDHeader)
}

// SecurityConfig selects the response hardening headers
type SecurityConfig struct {
	// HSTSMaxAge enables Strict-Transport-Security when positive. Only set it
	// behind TLS.
	HSTSMaxAge        time.Duration
	HSTSPreload       bool
	CSP               string
	PermissionsPolicy string
	// UIPrefixes are paths serving HTML, such as the Swagger UI, which get no
	// CSP since the API policy blocks their scripts and styles
	UIPrefixes []string
}

// DefaultSecurityConfig returns the header set for the JSON API. Production
// deployments terminate TLS and get HSTS.
func DefaultSecurityConfig(production bool) SecurityConfig {
	cfg := SecurityConfig{
		CSP:               "default-src 'none'; frame-ancestors 'none'; base-uri 'none'",
		PermissionsPolicy: "camera=(), geolocation=(), microphone=(), payment=(), usb=()",
		UIPrefixes:        []string{"/swagger/"},
	}
	if production {
		cfg.HSTSMaxAge = 365 * 24 * time.Hour
	}
	return cfg
}

// Secure adds the development header set
func Secure() gin.HandlerFunc {
	return SecureWithConfig(DefaultSecurityConfig(false))
}

func SecureWithConfig(cfg SecurityConfig) gin.HandlerFunc {
	var hsts string
	if cfg.HSTSMaxAge > 0 {
		hsts = fmt.Sprintf("max-age=%d; includeSubDomains", int64(cfg.HSTSMaxAge.Seconds()))
		if cfg.HSTSPreload {
			hsts += "; preload"
		}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		if cfg.CSP != "" && !hasAnyPrefix(c.Request.URL.Path, cfg.UIPrefixes) {
			h.Set("Content-Security-Policy", cfg.CSP)
		}
		if hsts != "" {
			h.Set("Strict-Transport-Security", hsts)
		}
		if cfg.PermissionsPolicy != "" {
			h.Set("Permissions-Policy", cfg.PermissionsPolicy)
		}
		c.Next()
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Timeout bounds the request context. Handlers observe the deadline through
// ctx; when nothing was written once the chain returns after the deadline the
// client gets a 503.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				dto.NewErrorResponseWithRequestID("REQUEST_TIMEOUT", "Request timed out", GetRequestID(c)))
		}
	}
}
