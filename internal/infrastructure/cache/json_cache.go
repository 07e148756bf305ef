package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultJSONCachePrefix = "hostel:cache:"
	defaultScanBatchSize   = 100
	memorySweepInterval    = 30 * time.Second
)

// JSONCache stores JSON encodable values under string keys
type JSONCache interface {
	// Get decodes the cached value into dest. It returns false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}

// RedisJSONCache implements JSONCache on Redis strings
type RedisJSONCache struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// RedisJSONCacheOption configures a RedisJSONCache
type RedisJSONCacheOption func(*RedisJSONCache)

// WithJSONCacheLogger sets the logger
func WithJSONCacheLogger(logger *zap.Logger) RedisJSONCacheOption {
	return func(c *RedisJSONCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewRedisJSONCache creates a cache over a shared client
func NewRedisJSONCache(client *redis.Client, prefix string, opts ...RedisJSONCacheOption) *RedisJSONCache {
	if prefix == "" {
		prefix = defaultJSONCachePrefix
	}
	c := &RedisJSONCache{client: client, prefix: prefix, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get implements JSONCache
func (c *RedisJSONCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("Dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, c.prefix+key).Err()
		return false, nil
	}
	return true, nil
}

// Set implements JSONCache
func (c *RedisJSONCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// DeletePrefix walks the keyspace with SCAN so a large cache never blocks Redis
func (c *RedisJSONCache) DeletePrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	pattern := c.prefix + prefix + "*"
	deleted := 0
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, defaultScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	c.logger.Debug("Invalidated cache keys", zap.String("prefix", prefix), zap.Int("count", deleted))
	return nil
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// InMemoryJSONCache implements JSONCache in process memory. Values are stored
// encoded so callers never share mutable state with the cache.
type InMemoryJSONCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	stop    chan struct{}
	once    sync.Once
}

// NewInMemoryJSONCache creates a cache and starts its sweeper
func NewInMemoryJSONCache() *InMemoryJSONCache {
	c := &InMemoryJSONCache{
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}
	go c.sweepLoop()
	return c
}

// Get implements JSONCache
func (c *InMemoryJSONCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || e.expired(time.Now()) {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, nil
	}
	return true, nil
}

// Set implements JSONCache. A zero ttl keeps the entry until it is deleted.
func (c *InMemoryJSONCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %s: %w", key, err)
	}
	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// DeletePrefix implements JSONCache
func (c *InMemoryJSONCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

// Close stops the sweeper
func (c *InMemoryJSONCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *InMemoryJSONCache) sweepLoop() {
	ticker := time.NewTicker(memorySweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for k, e := range c.entries {
				if e.expired(now) {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		}
	}
}

var (
	_ JSONCache = (*RedisJSONCache)(nil)
	_ JSONCache = (*InMemoryJSONCache)(nil)
)
