package finance

import (
	"context"
	"fmt"

	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BookingConfirmedHandler raises the first rent charge when a booking is confirmed
type BookingConfirmedHandler struct {
	payments *PaymentService
	logger   *zap.Logger
}

// NewBookingConfirmedHandler creates a new handler for booking confirmed events
func NewBookingConfirmedHandler(payments *PaymentService, logger *zap.Logger) *BookingConfirmedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingConfirmedHandler{payments: payments, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *BookingConfirmedHandler) EventTypes() []string {
	return []string{housing.EventTypeBookingConfirmed}
}

// Handle charges the rent of the month the booking starts in
func (h *BookingConfirmedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	confirmed, ok := event.(*housing.BookingConfirmedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			housing.EventTypeBookingConfirmed, event.EventType())
	}

	created, err := h.payments.ChargeFirstMonth(ctx, confirmed.AggregateID())
	if err != nil {
		h.logger.Error("Failed to charge first month rent",
			zap.String("booking_id", confirmed.AggregateID().String()),
			zap.Error(err))
		return fmt.Errorf("failed to charge first month rent: %w", err)
	}
	if !created {
		h.logger.Debug("Rent already charged for booking, skipping",
			zap.String("booking_id", confirmed.AggregateID().String()))
		return nil
	}
	h.logger.Info("First month rent charged",
		zap.String("booking_id", confirmed.AggregateID().String()),
		zap.String("student_id", confirmed.StudentID.String()))
	return nil
}

var _ shared.EventHandler = (*BookingConfirmedHandler)(nil)
