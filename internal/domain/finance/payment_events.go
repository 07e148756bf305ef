package finance

import (
	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypePayment is the aggregate type for payments
const AggregateTypePayment = "Payment"

// Payment event types
const (
	EventTypePaymentCreated   = "PaymentCreated"
	EventTypePaymentPaid      = "PaymentPaid"
	EventTypePaymentOverdue   = "PaymentOverdue"
	EventTypePaymentRefunded  = "PaymentRefunded"
	EventTypePaymentCancelled = "PaymentCancelled"
)

// PaymentEvent carries the state of a payment after a change
type PaymentEvent struct {
	shared.BaseDomainEvent
	StudentID    uuid.UUID       `json:"student_id"`
	Type         PaymentType     `json:"payment_type"`
	Amount       decimal.Decimal `json:"amount"`
	BillingMonth string          `json:"billing_month,omitempty"`
	Status       PaymentStatus   `json:"status"`
}

// NewPaymentEvent creates an event of the given type for p
func NewPaymentEvent(eventType string, p *Payment) *PaymentEvent {
	return &PaymentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypePayment, p.ID),
		StudentID:       p.StudentID,
		Type:            p.Type,
		Amount:          p.Amount,
		BillingMonth:    p.BillingMonth,
		Status:          p.Status,
	}
}
