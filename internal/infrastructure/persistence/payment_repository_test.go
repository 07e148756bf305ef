package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPayment(t *testing.T, db *gorm.DB, studentID uuid.UUID, bookingID *uuid.UUID, amount string, month string, due time.Time) *finance.Payment {
	t.Helper()
	p, err := finance.NewPayment(studentID, bookingID, finance.PaymentTypeRent, decimal.RequireFromString(amount), month, due, "")
	require.NoError(t, err)
	require.NoError(t, NewGormPaymentRepository(db).Create(context.Background(), p))
	return p
}

func TestGormPaymentRepository_Summarize(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	s1 := seedStudent(t, db, "pay1@example.com")
	s2 := seedStudent(t, db, "pay2@example.com")

	paid := seedPayment(t, db, s1.ID, nil, "100.25", "2026-01", day(-30))
	require.NoError(t, paid.MarkPaid(finance.PaymentMethodCash, "r-1"))
	require.NoError(t, repo.Update(ctx, paid))

	seedPayment(t, db, s1.ID, nil, "50.50", "2026-02", day(5))
	overdue := seedPayment(t, db, s2.ID, nil, "70", "2026-02", day(-5))
	require.NoError(t, overdue.MarkOverdue())
	require.NoError(t, repo.Update(ctx, overdue))

	summary, err := repo.Summarize(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "100.25", summary.TotalPaid.StringFixed(2))
	assert.Equal(t, "50.50", summary.TotalPending.StringFixed(2))
	assert.Equal(t, "70.00", summary.TotalOverdue.StringFixed(2))
	assert.Equal(t, "120.50", summary.Outstanding().StringFixed(2))
	assert.Equal(t, int64(1), summary.PaidCount)

	own, err := repo.Summarize(ctx, &s2.ID)
	require.NoError(t, err)
	assert.True(t, own.TotalPaid.IsZero())
	assert.Equal(t, "70.00", own.TotalOverdue.StringFixed(2))
}

func TestGormPaymentRepository_MonthlyTotals(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	student := seedStudent(t, db, "monthly@example.com")
	year := time.Now().UTC().Year()

	for _, amount := range []string{"10", "15.5"} {
		p := seedPayment(t, db, student.ID, nil, amount, "2026-03", day(0))
		require.NoError(t, p.MarkPaid(finance.PaymentMethodCard, ""))
		require.NoError(t, repo.Update(ctx, p))
	}
	seedPayment(t, db, student.ID, nil, "99", "2026-03", day(0))

	totals, err := repo.MonthlyTotals(ctx, year, nil)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, time.Now().UTC().Format("2006-01"), totals[0].Month)
	assert.Equal(t, "25.50", totals[0].Total.StringFixed(2))
	assert.Equal(t, int64(2), totals[0].Count)

	filled := finance.FillYear(year, totals)
	assert.Len(t, filled, 12)

	totals, err = repo.MonthlyTotals(ctx, year-1, nil)
	require.NoError(t, err)
	assert.Empty(t, totals)
}

func TestGormPaymentRepository_BookingQueries(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	student := seedStudent(t, db, "charges@example.com")
	room := seedRoom(t, db, "H-1", 2)
	booking := seedBooking(t, db, student.ID, room.ID, housing.BookingStatusActive)

	charge := seedPayment(t, db, student.ID, &booking.ID, "500", "2026-05", day(-1))

	exists, err := repo.ExistsForBookingMonth(ctx, booking.ID, finance.PaymentTypeRent, "2026-05")
	require.NoError(t, err)
	assert.True(t, exists)

	outstanding, err := repo.FindOutstandingByBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Len(t, outstanding, 1)

	due, err := repo.FindPendingDueBefore(ctx, day(0))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, charge.ID, due[0].ID)

	require.NoError(t, charge.Cancel("duplicate"))
	require.NoError(t, repo.Update(ctx, charge))

	exists, err = repo.ExistsForBookingMonth(ctx, booking.ID, finance.PaymentTypeRent, "2026-05")
	require.NoError(t, err)
	assert.False(t, exists, "cancelled charges do not count")
}

func TestGormPaymentRepository_FindAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	student := seedStudent(t, db, "list@example.com")
	seedPayment(t, db, student.ID, nil, "1", "2026-01", day(1))
	seedPayment(t, db, student.ID, nil, "2", "2026-02", day(2))
	seedPayment(t, db, student.ID, nil, "3", "2026-02", day(3))

	payments, total, err := repo.FindAll(ctx, finance.PaymentFilter{BillingMonth: "2026-02", SortBy: "amount", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, payments, 2)
	assert.True(t, payments[0].Amount.LessThan(payments[1].Amount))

	dueTo := day(1)
	_, total, err = repo.FindAll(ctx, finance.PaymentFilter{DueTo: &dueTo})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestMonthExpr(t *testing.T) {
	db := newTestDB(t)
	assert.Equal(t, "strftime('%Y-%m', paid_at)", monthExpr(db, "paid_at"))

	mock, _, cleanup := newPostgresMock(t)
	defer cleanup()
	assert.Equal(t, "to_char(paid_at, 'YYYY-MM')", monthExpr(mock, "paid_at"))
}
