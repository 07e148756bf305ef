package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/community"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/welfare"
	"go.uber.org/zap"
)

// EventNotifier turns domain events into user notifications
type EventNotifier struct {
	notifications *Service
	eventRepo     community.EventRepository
	logger        *zap.Logger
}

// NewEventNotifier creates a new EventNotifier
func NewEventNotifier(notifications *Service, eventRepo community.EventRepository, logger *zap.Logger) *EventNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventNotifier{notifications: notifications, eventRepo: eventRepo, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *EventNotifier) EventTypes() []string {
	return []string{
		housing.EventTypeBookingCreated,
		housing.EventTypeBookingConfirmed,
		housing.EventTypeBookingCheckedIn,
		housing.EventTypeBookingCompleted,
		housing.EventTypeBookingCancelled,
		housing.EventTypeRoommateRequested,
		housing.EventTypeRoommateAccepted,
		housing.EventTypeRoommateRejected,
		finance.EventTypePaymentCreated,
		finance.EventTypePaymentPaid,
		finance.EventTypePaymentOverdue,
		finance.EventTypePaymentRefunded,
		finance.EventTypePaymentCancelled,
		community.EventTypeNoticePublished,
		community.EventTypeEventCancelled,
		welfare.EventTypeComplaintFiled,
		welfare.EventTypeComplaintStatusChanged,
		welfare.EventTypeLeaveRequested,
		welfare.EventTypeLeaveApproved,
		welfare.EventTypeLeaveRejected,
	}
}

// Handle creates the notifications for one event
func (h *EventNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	var err error
	switch e := event.(type) {
	case *housing.BookingCreatedEvent:
		_, err = h.notifications.NotifyRole(ctx, shared.RoleAdmin, notification.TypeBooking,
			"New booking request",
			fmt.Sprintf("A booking starting %s is waiting for confirmation", e.StartDate.Format("2006-01-02")),
			link("bookings", e.AggregateID()))
	case *housing.BookingConfirmedEvent:
		err = h.notifyOne(ctx, e.StudentID, notification.TypeBooking,
			"Booking confirmed",
			fmt.Sprintf("Your booking from %s to %s is confirmed", e.StartDate.Format("2006-01-02"), e.EndDate.Format("2006-01-02")),
			link("bookings", e.AggregateID()))
	case *housing.BookingStatusEvent:
		title := "Checked in"
		message := "Welcome! Your check-in has been recorded"
		if e.EventType() == housing.EventTypeBookingCompleted {
			title = "Stay completed"
			message = "Your booking is complete and your bed has been released"
		}
		err = h.notifyOne(ctx, e.StudentID, notification.TypeBooking, title, message, link("bookings", e.AggregateID()))
	case *housing.BookingCancelledEvent:
		message := "Your booking has been cancelled"
		if e.Reason != "" {
			message += ": " + e.Reason
		}
		err = h.notifyOne(ctx, e.StudentID, notification.TypeBooking, "Booking cancelled", message, link("bookings", e.AggregateID()))
	case *housing.RoommateRequestEvent:
		err = h.roommate(ctx, e)
	case *finance.PaymentEvent:
		err = h.payment(ctx, e)
	case *community.NoticePublishedEvent:
		err = h.notice(ctx, e)
	case *community.EventChangedEvent:
		err = h.eventCancelled(ctx, e)
	case *welfare.ComplaintEvent:
		if e.EventType() == welfare.EventTypeComplaintFiled {
			_, err = h.notifications.NotifyRole(ctx, shared.RoleAdmin, notification.TypeComplaint,
				"New complaint", fmt.Sprintf("%s (%s)", e.Title, strings.ToLower(string(e.Category))),
				link("complaints", e.AggregateID()))
		} else {
			err = h.notifyOne(ctx, e.StudentID, notification.TypeComplaint,
				"Complaint updated",
				fmt.Sprintf("Your complaint \"%s\" is now %s", e.Title, humanize(string(e.Status))),
				link("complaints", e.AggregateID()))
		}
	case *welfare.LeaveEvent:
		err = h.leave(ctx, e)
	default:
		return fmt.Errorf("unexpected event type for notifications: %s", event.EventType())
	}
	if err != nil {
		h.logger.Error("Failed to create notifications",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err))
		return fmt.Errorf("failed to notify %s: %w", event.EventType(), err)
	}
	return nil
}

func (h *EventNotifier) roommate(ctx context.Context, e *housing.RoommateRequestEvent) error {
	l := link("roommate-requests", e.AggregateID())
	switch e.EventType() {
	case housing.EventTypeRoommateRequested:
		return h.notifyOne(ctx, e.TargetID, notification.TypeRoommate,
			"New roommate request", "A student would like to share a room with you", l)
	case housing.EventTypeRoommateAccepted:
		return h.notifyOne(ctx, e.RequesterID, notification.TypeRoommate,
			"Roommate request accepted", "Your roommate request was accepted", l)
	default:
		return h.notifyOne(ctx, e.RequesterID, notification.TypeRoommate,
			"Roommate request declined", "Your roommate request was declined", l)
	}
}

func (h *EventNotifier) payment(ctx context.Context, e *finance.PaymentEvent) error {
	amount := e.Amount.StringFixed(2)
	what := strings.ToLower(string(e.Type))
	if e.BillingMonth != "" {
		what += " for " + e.BillingMonth
	}
	var title, message string
	switch e.EventType() {
	case finance.EventTypePaymentCreated:
		title, message = "New charge", fmt.Sprintf("A %s charge of %s was added", what, amount)
	case finance.EventTypePaymentPaid:
		title, message = "Payment received", fmt.Sprintf("We received your %s payment of %s", what, amount)
	case finance.EventTypePaymentOverdue:
		title, message = "Payment overdue", fmt.Sprintf("Your %s payment of %s is overdue", what, amount)
	case finance.EventTypePaymentRefunded:
		title, message = "Payment refunded", fmt.Sprintf("Your %s payment of %s was refunded", what, amount)
	default:
		title, message = "Charge cancelled", fmt.Sprintf("The %s charge of %s was cancelled", what, amount)
	}
	return h.notifyOne(ctx, e.StudentID, notification.TypePayment, title, message, link("payments", e.AggregateID()))
}

func (h *EventNotifier) notice(ctx context.Context, e *community.NoticePublishedEvent) error {
	title := e.Title
	if e.Priority == community.PriorityUrgent || e.Priority == community.PriorityHigh {
		title = "[" + string(e.Priority) + "] " + title
	}
	for _, role := range e.Audience.Roles() {
		if _, err := h.notifications.NotifyRole(ctx, role, notification.TypeNotice,
			truncate(title, 200), "A new notice was published", link("notices", e.AggregateID())); err != nil {
			return err
		}
	}
	return nil
}

func (h *EventNotifier) eventCancelled(ctx context.Context, e *community.EventChangedEvent) error {
	if e.EventType() != community.EventTypeEventCancelled {
		return nil
	}
	regs, err := h.eventRepo.ListRegistrations(ctx, e.AggregateID())
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, len(regs))
	for i, r := range regs {
		ids[i] = r.UserID
	}
	_, err = h.notifications.Notify(ctx, ids, notification.TypeEvent,
		"Event cancelled",
		fmt.Sprintf("\"%s\" on %s has been cancelled", e.Title, e.StartsAt.Format("2006-01-02 15:04")),
		link("events", e.AggregateID()))
	return err
}

func (h *EventNotifier) leave(ctx context.Context, e *welfare.LeaveEvent) error {
	l := link("leaves", e.AggregateID())
	dates := e.FromDate.Format("2006-01-02") + " to " + e.ToDate.Format("2006-01-02")
	switch e.EventType() {
	case welfare.EventTypeLeaveRequested:
		_, err := h.notifications.NotifyRole(ctx, shared.RoleAdmin, notification.TypeLeave,
			"New leave application", "Leave requested for "+dates, l)
		return err
	case welfare.EventTypeLeaveApproved:
		return h.notifyOne(ctx, e.StudentID, notification.TypeLeave, "Leave approved", "Your leave for "+dates+" was approved", l)
	default:
		return h.notifyOne(ctx, e.StudentID, notification.TypeLeave, "Leave rejected", "Your leave for "+dates+" was rejected", l)
	}
}

func (h *EventNotifier) notifyOne(ctx context.Context, userID uuid.UUID, t notification.Type, title, message, l string) error {
	_, err := h.notifications.Notify(ctx, []uuid.UUID{userID}, t, title, message, l)
	return err
}

func link(resource string, id uuid.UUID) string {
	return "/" + resource + "/" + id.String()
}

func humanize(status string) string {
	return strings.ReplaceAll(strings.ToLower(status), "_", " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ shared.EventHandler = (*EventNotifier)(nil)
