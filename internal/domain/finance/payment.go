package finance

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentType classifies what a charge is for
type PaymentType string

const (
	PaymentTypeRent    PaymentType = "RENT"
	PaymentTypeDeposit PaymentType = "DEPOSIT"
	PaymentTypeFine    PaymentType = "FINE"
	PaymentTypeOther   PaymentType = "OTHER"
)

// IsValid checks if the payment type is valid
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeRent, PaymentTypeDeposit, PaymentTypeFine, PaymentTypeOther:
		return true
	}
	return false
}

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusOverdue   PaymentStatus = "OVERDUE"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusPaid, PaymentStatusOverdue, PaymentStatusCancelled},
	PaymentStatusOverdue: {PaymentStatusPaid, PaymentStatusCancelled},
	PaymentStatusPaid:    {PaymentStatusRefunded},
}

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusOverdue, PaymentStatusRefunded, PaymentStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move to next
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OutstandingPaymentStatuses are the states in which money is still owed
var OutstandingPaymentStatuses = []PaymentStatus{PaymentStatusPending, PaymentStatusOverdue}

// IsTerminal returns true if no further transition is possible
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusRefunded || s == PaymentStatusCancelled
}

// PaymentMethod represents how a payment was settled
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodOnline       PaymentMethod = "ONLINE"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodOnline:
		return true
	}
	return false
}

var billingMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidBillingMonth reports whether s has the YYYY-MM form
func ValidBillingMonth(s string) bool {
	return billingMonthPattern.MatchString(s)
}

// BillingMonthOf formats the month a day falls in
func BillingMonthOf(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// ParseBillingMonth returns the first day of a YYYY-MM month
func ParseBillingMonth(s string) (time.Time, error) {
	if !ValidBillingMonth(s) {
		return time.Time{}, shared.NewDomainError("INVALID_BILLING_MONTH", "Billing month must use the YYYY-MM format")
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_BILLING_MONTH", "Billing month must use the YYYY-MM format")
	}
	return t, nil
}

// Payment is a charge owed by a student and its settlement
type Payment struct {
	shared.BaseAggregateRoot
	StudentID    uuid.UUID
	BookingID    *uuid.UUID
	Type         PaymentType
	Amount       decimal.Decimal
	BillingMonth string
	DueDate      time.Time
	Status       PaymentStatus
	Method       PaymentMethod
	Reference    string
	Notes        string
	PaidAt       *time.Time
	RefundedAt   *time.Time
	CancelledAt  *time.Time
}

// NewPayment creates a PENDING charge
func NewPayment(studentID uuid.UUID, bookingID *uuid.UUID, paymentType PaymentType, amount decimal.Decimal, billingMonth string, dueDate time.Time, notes string) (*Payment, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student is required")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Payment type must be RENT, DEPOSIT, FINE or OTHER")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	billingMonth = strings.TrimSpace(billingMonth)
	if billingMonth != "" && !ValidBillingMonth(billingMonth) {
		return nil, shared.NewDomainError("INVALID_BILLING_MONTH", "Billing month must use the YYYY-MM format")
	}
	if paymentType == PaymentTypeRent && billingMonth == "" {
		return nil, shared.NewDomainError("INVALID_BILLING_MONTH", "Rent charges require a billing month")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}

	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StudentID:         studentID,
		BookingID:         bookingID,
		Type:              paymentType,
		Amount:            amount.Round(2),
		BillingMonth:      billingMonth,
		DueDate:           valueobject.TruncateDay(dueDate),
		Status:            PaymentStatusPending,
		Notes:             strings.TrimSpace(notes),
	}
	p.RecordEvent(NewPaymentEvent(EventTypePaymentCreated, p))
	return p, nil
}

// NewRentCharge creates the monthly rent charge of a booking, due on the given day
func NewRentCharge(studentID, bookingID uuid.UUID, rent decimal.Decimal, billingMonth string, dueDate time.Time) (*Payment, error) {
	return NewPayment(studentID, &bookingID, PaymentTypeRent, rent, billingMonth, dueDate, "")
}

// MarkPaid settles a PENDING or OVERDUE payment
func (p *Payment) MarkPaid(method PaymentMethod, reference string) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be CASH, CARD, BANK_TRANSFER or ONLINE")
	}
	if err := p.transition(PaymentStatusPaid); err != nil {
		return err
	}
	now := time.Now()
	p.Method = method
	p.Reference = strings.TrimSpace(reference)
	p.PaidAt = &now
	p.RecordEvent(NewPaymentEvent(EventTypePaymentPaid, p))
	return nil
}

// MarkOverdue flags a PENDING payment whose due date has passed
func (p *Payment) MarkOverdue() error {
	if err := p.transition(PaymentStatusOverdue); err != nil {
		return err
	}
	p.RecordEvent(NewPaymentEvent(EventTypePaymentOverdue, p))
	return nil
}

// Refund reverses a PAID payment
func (p *Payment) Refund(notes string) error {
	if err := p.transition(PaymentStatusRefunded); err != nil {
		return err
	}
	now := time.Now()
	p.RefundedAt = &now
	p.appendNote(notes)
	p.RecordEvent(NewPaymentEvent(EventTypePaymentRefunded, p))
	return nil
}

// Cancel voids an outstanding payment
func (p *Payment) Cancel(notes string) error {
	if err := p.transition(PaymentStatusCancelled); err != nil {
		return err
	}
	now := time.Now()
	p.CancelledAt = &now
	p.appendNote(notes)
	p.RecordEvent(NewPaymentEvent(EventTypePaymentCancelled, p))
	return nil
}

// TransitionTo applies a status change by name, used by bulk updates
func (p *Payment) TransitionTo(status PaymentStatus, method PaymentMethod, reference, notes string) error {
	switch status {
	case PaymentStatusPaid:
		if method == "" {
			method = PaymentMethodCash
		}
		return p.MarkPaid(method, reference)
	case PaymentStatusOverdue:
		return p.MarkOverdue()
	case PaymentStatusRefunded:
		return p.Refund(notes)
	case PaymentStatusCancelled:
		return p.Cancel(notes)
	}
	return shared.NewDomainError("PAYMENT_INVALID_TRANSITION",
		"Cannot change payment from "+string(p.Status)+" to "+string(status))
}

// IsPastDue reports whether an outstanding payment is past its due date on day now
func (p *Payment) IsPastDue(now time.Time) bool {
	return p.Status == PaymentStatusPending && p.DueDate.Before(valueobject.TruncateDay(now))
}

func (p *Payment) transition(next PaymentStatus) error {
	if !p.Status.CanTransitionTo(next) {
		return shared.NewDomainError("PAYMENT_INVALID_TRANSITION",
			"Cannot change payment from "+string(p.Status)+" to "+string(next))
	}
	p.Status = next
	p.Touch()
	return nil
}

func (p *Payment) appendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if p.Notes == "" {
		p.Notes = note
		return
	}
	p.Notes = p.Notes + "\n" + note
}
