package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hostelhub/backend/internal/infrastructure/config"
)

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader, "Cache-Control"}
	corsExposeHeaders  = []string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Disposition"}
)

// CORSConfigFrom builds the CORS policy from HTTP config. An empty origin list
// yields a policy that allows no cross-origin caller.
func CORSConfigFrom(cfg config.HTTPConfig) cors.Config {
	methods := cfg.CORSAllowMethods
	if len(methods) == 0 {
		methods = defaultCORSMethods
	}
	headers := cfg.CORSAllowHeaders
	if len(headers) == 0 {
		headers = defaultCORSHeaders
	}

	c := cors.Config{
		AllowMethods:  methods,
		AllowHeaders:  headers,
		ExposeHeaders: corsExposeHeaders,
		MaxAge:        12 * time.Hour,
	}
	for _, o := range cfg.CORSAllowOrigins {
		if o == "*" {
			// browsers reject credentials with a wildcard origin
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = cfg.CORSAllowOrigins
	c.AllowCredentials = true
	if len(c.AllowOrigins) == 0 {
		c.AllowOriginFunc = func(string) bool { return false }
	}
	return c
}

// CORS returns the CORS middleware for cfg
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	return cors.New(CORSConfigFrom(cfg))
}
