package common

import (
	"context"
	"time"
)

// ObjectStorage stores uploaded and generated files under opaque keys
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// PresignGet returns a time limited download URL for key
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error)
}
