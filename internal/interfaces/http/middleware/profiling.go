package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig configures the pyroscope label middleware
type ProfilingConfig struct {
	Enabled bool
	// Skip lists paths served without labels. An entry ending in "*" matches
	// every path with that prefix.
	Skip []string
}

func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled: true,
		Skip:    []string{"/health", "/metrics", "/api/docs", "/swagger/*"},
	}
}

// Profiling tags the goroutine serving a request with pyroscope labels:
// method, route pattern, controller (the first resource segment, "rooms" for
// "/api/v1/rooms/:id") and role. Mount it after the JWT middleware so the
// role is known. User IDs are never labels; their cardinality is unbounded.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	exact := make(map[string]bool)
	var prefixes []string
	for _, s := range cfg.Skip {
		if p, ok := strings.CutSuffix(s, "*"); ok {
			prefixes = append(prefixes, p)
		} else {
			exact[s] = true
		}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if exact[path] || hasAnyPrefix(path, prefixes) {
			c.Next()
			return
		}
		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	labels := map[string]string{telemetry.ProfilingLabelMethod: c.Request.Method}
	route := c.FullPath()
	if route != "" {
		labels[telemetry.ProfilingLabelRoute] = route
	}
	if controller := extractControllerFromRoute(route); controller != "" {
		labels[telemetry.ProfilingLabelController] = controller
	}
	if role := GetJWTRole(c); role != "" {
		labels[telemetry.ProfilingLabelRole] = string(role)
	}
	return labels
}

// extractControllerFromRoute returns the first literal segment after the
// api and version prefix
func extractControllerFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		switch {
		case part == "", part == "api", isVersionSegment(part):
		case strings.HasPrefix(part, ":"), strings.HasPrefix(part, "*"):
		default:
			return part
		}
	}
	return ""
}

// isVersionSegment matches v1, v2, V10 and so on
func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
