package bulkapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/bulk"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// PaymentStatusInput moves many payments to one status
type PaymentStatusInput struct {
	IDs       []uuid.UUID
	Status    finance.PaymentStatus
	Method    finance.PaymentMethod
	Reference string
	Notes     string
}

// LeaveReviewInput approves or rejects many leave applications
type LeaveReviewInput struct {
	IDs     []uuid.UUID
	Approve bool
	Note    string
}

// NotificationInput sends the same notification to many users
type NotificationInput struct {
	UserIDs []uuid.UUID
	Type    notification.Type
	Title   string
	Message string
	Link    string
}

// GenerateRent charges the rent of month for every ACTIVE booking. An empty
// month means the current one.
func (s *Service) GenerateRent(ctx context.Context, actor shared.Actor, month string) (*ActionResult, error) {
	if month == "" {
		month = finance.BillingMonthOf(time.Now())
	}
	return s.run(ctx, actor, bulk.ActionGenerateRent, "month "+month, func() (*bulk.Result, error) {
		return s.services.Payments.GenerateRent(ctx, month)
	})
}

// UpdatePaymentStatus applies a status change to each payment
func (s *Service) UpdatePaymentStatus(ctx context.Context, actor shared.Actor, input PaymentStatusInput) (*ActionResult, error) {
	if !input.Status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid payment status: %s", input.Status))
	}
	source := fmt.Sprintf("%d payments to %s", len(input.IDs), input.Status)
	return s.run(ctx, actor, bulk.ActionPaymentStatus, source, func() (*bulk.Result, error) {
		return s.forEach(input.IDs, func(id uuid.UUID) error {
			_, err := s.services.Payments.UpdateStatus(ctx, id, input.Status, input.Method, input.Reference, input.Notes)
			return err
		})
	})
}

// ReviewLeaves approves or rejects each pending leave application
func (s *Service) ReviewLeaves(ctx context.Context, actor shared.Actor, input LeaveReviewInput) (*ActionResult, error) {
	verdict := "reject"
	if input.Approve {
		verdict = "approve"
	}
	source := fmt.Sprintf("%s %d leave applications", verdict, len(input.IDs))
	return s.run(ctx, actor, bulk.ActionLeaveReview, source, func() (*bulk.Result, error) {
		return s.forEach(input.IDs, func(id uuid.UUID) error {
			_, err := s.services.Leaves.Review(ctx, actor, id, input.Approve, input.Note)
			return err
		})
	})
}

// CancelBookings cancels each booking with the same reason
func (s *Service) CancelBookings(ctx context.Context, actor shared.Actor, ids []uuid.UUID, reason string) (*ActionResult, error) {
	source := fmt.Sprintf("cancel %d bookings", len(ids))
	return s.run(ctx, actor, bulk.ActionBookingCancellation, source, func() (*bulk.Result, error) {
		return s.forEach(ids, func(id uuid.UUID) error {
			_, err := s.services.Bookings.Cancel(ctx, actor, id, reason)
			return err
		})
	})
}

// SetUserStatus activates or deactivates each user
func (s *Service) SetUserStatus(ctx context.Context, actor shared.Actor, ids []uuid.UUID, active bool) (*ActionResult, error) {
	verb := "deactivate"
	if active {
		verb = "activate"
	}
	source := fmt.Sprintf("%s %d users", verb, len(ids))
	return s.run(ctx, actor, bulk.ActionUserStatus, source, func() (*bulk.Result, error) {
		return s.forEach(ids, func(id uuid.UUID) error {
			_, err := s.services.Users.SetStatus(ctx, actor, id, active)
			return err
		})
	})
}

// Notify sends one notification to every selected user. Notifications are
// stored in one batch, so the recipients succeed or fail together.
func (s *Service) Notify(ctx context.Context, actor shared.Actor, input NotificationInput) (*ActionResult, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Message) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Title and message are required")
	}
	if input.Type == "" {
		input.Type = notification.TypeSystem
	}
	title, message := s.sanitizer.Text(input.Title), s.sanitizer.Text(input.Message)
	return s.run(ctx, actor, bulk.ActionNotification, title, func() (*bulk.Result, error) {
		ids, err := s.distinct(input.UserIDs)
		if err != nil {
			return nil, err
		}
		result := bulk.NewResult(len(ids))
		if _, err := s.services.Notifier.Notify(ctx, ids, input.Type, title, message, input.Link); err != nil {
			for _, id := range ids {
				result.FailID(id, err)
			}
			return result, nil
		}
		result.Succeeded = len(ids)
		return result, nil
	})
}
