package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// CreatePaymentInput is the input for creating a charge
type CreatePaymentInput struct {
	StudentID    uuid.UUID
	BookingID    *uuid.UUID
	Type         finance.PaymentType
	Amount       decimal.Decimal
	BillingMonth string
	DueDate      time.Time
	Notes        string
}

// PayInput settles a payment
type PayInput struct {
	Method    finance.PaymentMethod
	Reference string
}

// ListPaymentsInput filters the payment list
type ListPaymentsInput struct {
	StudentID    *uuid.UUID
	BookingID    *uuid.UUID
	Status       *finance.PaymentStatus
	Type         *finance.PaymentType
	BillingMonth string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// PaymentDTO is the API view of a payment
type PaymentDTO struct {
	ID           uuid.UUID             `json:"id"`
	StudentID    uuid.UUID             `json:"student_id"`
	BookingID    *uuid.UUID            `json:"booking_id,omitempty"`
	Type         finance.PaymentType   `json:"type"`
	Amount       decimal.Decimal       `json:"amount"`
	BillingMonth string                `json:"billing_month,omitempty"`
	DueDate      time.Time             `json:"due_date"`
	Status       finance.PaymentStatus `json:"status"`
	Method       finance.PaymentMethod `json:"method,omitempty"`
	Reference    string                `json:"reference,omitempty"`
	Notes        string                `json:"notes,omitempty"`
	PaidAt       *time.Time            `json:"paid_at,omitempty"`
	RefundedAt   *time.Time            `json:"refunded_at,omitempty"`
	CancelledAt  *time.Time            `json:"cancelled_at,omitempty"`
	Version      int                   `json:"version"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ToPaymentDTO converts a payment to its DTO
func ToPaymentDTO(p *finance.Payment) PaymentDTO {
	return PaymentDTO{
		ID:           p.ID,
		StudentID:    p.StudentID,
		BookingID:    p.BookingID,
		Type:         p.Type,
		Amount:       p.Amount,
		BillingMonth: p.BillingMonth,
		DueDate:      p.DueDate,
		Status:       p.Status,
		Method:       p.Method,
		Reference:    p.Reference,
		Notes:        p.Notes,
		PaidAt:       p.PaidAt,
		RefundedAt:   p.RefundedAt,
		CancelledAt:  p.CancelledAt,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// SummaryDTO holds the payment sums of a student or of the whole hostel
type SummaryDTO struct {
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalPending  decimal.Decimal `json:"total_pending"`
	TotalOverdue  decimal.Decimal `json:"total_overdue"`
	TotalRefunded decimal.Decimal `json:"total_refunded"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	PaidCount     int64           `json:"paid_count"`
	PendingCount  int64           `json:"pending_count"`
	OverdueCount  int64           `json:"overdue_count"`
}

// MonthlyTotalsDTO is the paid revenue of each month of a year
type MonthlyTotalsDTO struct {
	Year   int                    `json:"year"`
	Months []finance.MonthlyTotal `json:"months"`
	Total  decimal.Decimal        `json:"total"`
}

// ReceiptFile is a rendered PDF receipt
type ReceiptFile struct {
	FileName string
	Content  []byte
}
