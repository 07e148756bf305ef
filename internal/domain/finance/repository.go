package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRepository defines persistence for payments
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Payment, error)
	FindAll(ctx context.Context, filter PaymentFilter) ([]*Payment, int64, error)
	// ExistsForBookingMonth reports whether a non-cancelled charge of the type exists for the booking and month
	ExistsForBookingMonth(ctx context.Context, bookingID uuid.UUID, paymentType PaymentType, billingMonth string) (bool, error)
	FindOutstandingByBooking(ctx context.Context, bookingID uuid.UUID) ([]*Payment, error)
	FindPendingDueBefore(ctx context.Context, day time.Time) ([]*Payment, error)
	Summarize(ctx context.Context, studentID *uuid.UUID) (*PaymentSummary, error)
	// MonthlyTotals sums PAID amounts grouped by the month of paid_at
	MonthlyTotals(ctx context.Context, year int, studentID *uuid.UUID) ([]MonthlyTotal, error)
}

// PaymentFilter contains filter options for payment queries
type PaymentFilter struct {
	StudentID    *uuid.UUID
	BookingID    *uuid.UUID
	Status       *PaymentStatus
	Type         *PaymentType
	BillingMonth string
	DueFrom      *time.Time
	DueTo        *time.Time
	PaidFrom     *time.Time
	PaidTo       *time.Time

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// PaymentSummary holds amount sums per status group
type PaymentSummary struct {
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalPending  decimal.Decimal `json:"total_pending"`
	TotalOverdue  decimal.Decimal `json:"total_overdue"`
	TotalRefunded decimal.Decimal `json:"total_refunded"`
	PaidCount     int64           `json:"paid_count"`
	PendingCount  int64           `json:"pending_count"`
	OverdueCount  int64           `json:"overdue_count"`
}

// Outstanding returns pending plus overdue amounts
func (s *PaymentSummary) Outstanding() decimal.Decimal {
	return s.TotalPending.Add(s.TotalOverdue)
}

// MonthlyTotal is the paid amount of one calendar month
type MonthlyTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// FillYear returns twelve entries for year, using zero where totals has no row
func FillYear(year int, totals []MonthlyTotal) []MonthlyTotal {
	byMonth := make(map[string]MonthlyTotal, len(totals))
	for _, t := range totals {
		byMonth[t.Month] = t
	}
	out := make([]MonthlyTotal, 12)
	for m := 1; m <= 12; m++ {
		key := time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
		if t, ok := byMonth[key]; ok {
			out[m-1] = t
			continue
		}
		out[m-1] = MonthlyTotal{Month: key, Total: decimal.Zero}
	}
	return out
}
