package analytics

import (
	"context"

	"github.com/hostelhub/backend/internal/domain/community"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/welfare"
	"go.uber.org/zap"
)

// CacheInvalidator clears cached analytics whenever the underlying data changes
type CacheInvalidator struct {
	service *Service
	logger  *zap.Logger
}

// NewCacheInvalidator creates a new CacheInvalidator
func NewCacheInvalidator(service *Service, logger *zap.Logger) *CacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheInvalidator{service: service, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *CacheInvalidator) EventTypes() []string {
	return []string{
		identity.EventTypeUserCreated,
		identity.EventTypeUserStatusChanged,
		housing.EventTypeRoomCreated,
		housing.EventTypeRoomUpdated,
		housing.EventTypeRoomStatusChanged,
		housing.EventTypeBookingCreated,
		housing.EventTypeBookingConfirmed,
		housing.EventTypeBookingCheckedIn,
		housing.EventTypeBookingCompleted,
		housing.EventTypeBookingCancelled,
		finance.EventTypePaymentCreated,
		finance.EventTypePaymentPaid,
		finance.EventTypePaymentOverdue,
		finance.EventTypePaymentRefunded,
		finance.EventTypePaymentCancelled,
		welfare.EventTypeComplaintFiled,
		welfare.EventTypeComplaintStatusChanged,
		welfare.EventTypeLeaveRequested,
		welfare.EventTypeLeaveApproved,
		welfare.EventTypeLeaveRejected,
		community.EventTypeEventScheduled,
		community.EventTypeEventCancelled,
	}
}

// Handle drops the cache
func (h *CacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.service.Invalidate(ctx); err != nil {
		h.logger.Warn("Failed to invalidate analytics cache",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return err
	}
	return nil
}

var _ shared.EventHandler = (*CacheInvalidator)(nil)
