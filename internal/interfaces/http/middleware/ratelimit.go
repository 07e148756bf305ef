package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Limiter decides whether a request identified by key may proceed and reports
// how many requests remain in the current window. cache.RedisRateLimiter
// implements it for multi-instance deployments.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, int, error)
	Limit() int
}

// RateLimiter implements a simple in-memory fixed window rate limiter
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type client struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates a new rate limiter. Call Stop to end its cleanup loop.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.cleanup(window * 2)
	return rl
}

// cleanup removes expired clients periodically
func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, c := range rl.clients {
				if now.Sub(c.lastReset) > rl.window*2 {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Limit returns the number of requests allowed per window
func (rl *RateLimiter) Limit() int {
	return rl.limit
}

// Allow checks if a request from the given key should be allowed
func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	c, exists := rl.clients[key]

	if !exists || now.Sub(c.lastReset) >= rl.window {
		rl.clients[key] = &client{
			tokens:    rl.limit - 1,
			lastReset: now,
		}
		return true, rl.limit - 1, nil
	}

	if c.tokens > 0 {
		c.tokens--
		return true, c.tokens, nil
	}
	return false, 0, nil
}

// ClientKey limits authenticated callers per user and anonymous ones per IP
func ClientKey(c *gin.Context) string {
	if userID := GetJWTUserID(c); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}

// RateLimit returns a rate limiting middleware keyed by ClientKey
func RateLimit(limiter Limiter, logger *zap.Logger) gin.HandlerFunc {
	return RateLimitByKey(limiter, logger, "api", ClientKey)
}

// RateLimitByKey returns a rate limiting middleware with custom key extractor.
// scope separates counters of different limiters that share a store. A failing
// store lets the request through.
func RateLimitByKey(limiter Limiter, logger *zap.Logger, scope string, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return rateLimit(limiter, logger, scope, keyFunc, "Too many requests. Please try again later.", 0)
}

// AuthRateLimit throttles credential endpoints per client IP. Blocked callers
// get a Retry-After of one window.
func AuthRateLimit(limiter Limiter, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return rateLimit(limiter, logger, "auth", func(c *gin.Context) string {
		return c.ClientIP()
	}, "Too many authentication attempts. Please try again later.", window)
}

func rateLimit(limiter Limiter, logger *zap.Logger, scope string, keyFunc func(*gin.Context) string, message string, retryAfter time.Duration) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := scope + ":" + keyFunc(c)

		allowed, remaining, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request",
				zap.String("key", key),
				zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			if retryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				message,
				GetRequestID(c),
			))
			return
		}

		c.Next()
	}
}
