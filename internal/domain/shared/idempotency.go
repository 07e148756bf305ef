package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed event IDs so handlers run at most once per event
type IdempotencyStore interface {
	// MarkProcessed returns true if the event was newly marked, false if it was already processed
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	Close() error
}
