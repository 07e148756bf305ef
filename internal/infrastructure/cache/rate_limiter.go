package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRateLimitPrefix = "hostel:ratelimit:"

// RedisRateLimiter is a fixed window request counter shared by all server
// instances. Each window gets its own key that expires with the window.
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedisRateLimiter allows limit requests per key per window
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		prefix: defaultRateLimitPrefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Limit returns the configured request limit per window
func (l *RedisRateLimiter) Limit() int {
	return l.limit
}

// Allow counts one request for key and reports whether it fits the window
// together with the requests left in it
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	bucket := l.now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s%s:%d", l.prefix, key, bucket)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to count request: %w", err)
	}

	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= l.limit, remaining, nil
}
