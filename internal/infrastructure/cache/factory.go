package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// NewRedisClient connects to Redis and verifies the connection with a ping.
// The caller owns the returned client and must close it.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// Stores bundles the Redis-or-memory implementations the application needs
type Stores struct {
	Client      *redis.Client // nil when Redis is disabled or unreachable
	Idempotency shared.IdempotencyStore
	Analytics   JSONCache
}

// Close releases the stores and the Redis connection
func (s *Stores) Close() error {
	var firstErr error
	if s.Idempotency != nil {
		if err := s.Idempotency.Close(); err != nil {
			firstErr = err
		}
	}
	if s.Client != nil {
		if err := s.Client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewStores builds Redis backed stores when Redis is enabled and reachable and
// falls back to process local stores otherwise. In-memory stores do not share
// state between instances, so a multi-instance deployment should run Redis.
func NewStores(cfg config.RedisConfig, logger *zap.Logger) *Stores {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Enabled {
		client, err := NewRedisClient(cfg)
		if err == nil {
			logger.Info("Using Redis for caches and idempotency", zap.String("addr", cfg.Addr()))
			return NewStoresWithClient(client, logger)
		}
		logger.Warn("Redis unavailable, falling back to in-memory stores", zap.Error(err))
	}
	return &Stores{
		Idempotency: NewInMemoryIdempotencyStore(),
		Analytics:   NewInMemoryJSONCache(),
	}
}

// NewStoresWithClient builds Redis backed stores over an existing client
func NewStoresWithClient(client *redis.Client, logger *zap.Logger) *Stores {
	return &Stores{
		Client:      client,
		Idempotency: NewRedisIdempotencyStore(client, ""),
		Analytics:   NewRedisJSONCache(client, "", WithJSONCacheLogger(logger)),
	}
}
