package common

import (
	"context"

	"github.com/hostelhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PublishEvents publishes and clears the pending events of each aggregate.
// Publishing happens after the state change is stored, so a failing handler
// is logged and never undoes the operation.
func PublishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregates ...shared.AggregateRoot) {
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		events := agg.PendingEvents()
		agg.ClearEvents()
		if publisher == nil || len(events) == 0 {
			continue
		}
		if err := publisher.Publish(ctx, events...); err != nil && logger != nil {
			logger.Error("Failed to publish domain events",
				zap.String("aggregate_id", agg.EntityID().String()),
				zap.Int("count", len(events)),
				zap.Error(err))
		}
	}
}
