package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type paymentFixture struct {
	svc      *PaymentService
	payments *MockPaymentRepository
	users    *MockUserRepository
	bookings *MockBookingRepository
	rooms    *MockRoomRepository
	pub      *MockPublisher
	renderer *fakeRenderer
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		payments: new(MockPaymentRepository),
		users:    new(MockUserRepository),
		bookings: new(MockBookingRepository),
		rooms:    new(MockRoomRepository),
		pub:      &MockPublisher{},
		renderer: &fakeRenderer{},
	}
	f.svc = NewPaymentService(f.payments, f.users, f.bookings, f.rooms, f.pub, nil, f.renderer,
		PaymentServiceConfig{HostelName: "Maple Hall", RentDueDay: 5}, zap.NewNop())
	return f
}

func newPayment(t *testing.T, studentID uuid.UUID) *finance.Payment {
	t.Helper()
	p, err := finance.NewPayment(studentID, nil, finance.PaymentTypeFine, decimal.NewFromInt(25), "", time.Now().AddDate(0, 0, 7), "")
	require.NoError(t, err)
	p.ID = uuid.New()
	p.ClearEvents()
	return p
}

func newActiveBooking(t *testing.T, studentID, roomID uuid.UUID) *housing.Booking {
	t.Helper()
	start := valueobject.Today()
	b, err := housing.NewBooking(studentID, roomID, start, start.AddDate(1, 0, 0), "")
	require.NoError(t, err)
	b.ID = uuid.New()
	require.NoError(t, b.Confirm())
	require.NoError(t, b.CheckIn())
	b.ClearEvents()
	return b
}

func TestPaymentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("fine", func(t *testing.T) {
		f := newPaymentFixture()
		student := newTestStudent(t)
		f.users.On("FindByID", ctx, student.ID).Return(student, nil)
		f.payments.On("Create", ctx, mock.AnythingOfType("*finance.Payment")).Return(nil)

		dto, err := f.svc.Create(ctx, CreatePaymentInput{
			StudentID: student.ID,
			Type:      finance.PaymentTypeFine,
			Amount:    decimal.RequireFromString("12.505"),
			DueDate:   time.Now().AddDate(0, 0, 14),
			Notes:     "Lost key",
		})
		require.NoError(t, err)
		assert.Equal(t, finance.PaymentStatusPending, dto.Status)
		assert.True(t, dto.Amount.Equal(decimal.RequireFromString("12.51")))
		assert.Equal(t, []string{finance.EventTypePaymentCreated}, f.pub.types())
	})

	t.Run("duplicate rent for booking month", func(t *testing.T) {
		f := newPaymentFixture()
		student := newTestStudent(t)
		booking := newActiveBooking(t, student.ID, uuid.New())
		f.users.On("FindByID", ctx, student.ID).Return(student, nil)
		f.bookings.On("FindByID", ctx, booking.ID).Return(booking, nil)
		f.payments.On("ExistsForBookingMonth", ctx, booking.ID, finance.PaymentTypeRent, "2026-11").Return(true, nil)

		_, err := f.svc.Create(ctx, CreatePaymentInput{
			StudentID:    student.ID,
			BookingID:    &booking.ID,
			Type:         finance.PaymentTypeRent,
			Amount:       decimal.NewFromInt(450),
			BillingMonth: "2026-11",
			DueDate:      time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC),
		})
		assert.Equal(t, "PAYMENT_ALREADY_EXISTS", shared.CodeOf(err))
	})

	t.Run("booking of another student", func(t *testing.T) {
		f := newPaymentFixture()
		student := newTestStudent(t)
		booking := newActiveBooking(t, uuid.New(), uuid.New())
		f.users.On("FindByID", ctx, student.ID).Return(student, nil)
		f.bookings.On("FindByID", ctx, booking.ID).Return(booking, nil)

		_, err := f.svc.Create(ctx, CreatePaymentInput{
			StudentID: student.ID, BookingID: &booking.ID, Type: finance.PaymentTypeDeposit,
			Amount: decimal.NewFromInt(100), DueDate: time.Now(),
		})
		assert.Equal(t, "INVALID_BOOKING", shared.CodeOf(err))
	})

	t.Run("zero amount", func(t *testing.T) {
		f := newPaymentFixture()
		student := newTestStudent(t)
		f.users.On("FindByID", ctx, student.ID).Return(student, nil)

		_, err := f.svc.Create(ctx, CreatePaymentInput{
			StudentID: student.ID, Type: finance.PaymentTypeOther, Amount: decimal.Zero, DueDate: time.Now(),
		})
		assert.Equal(t, "INVALID_AMOUNT", shared.CodeOf(err))
	})
}

func TestPaymentService_Transitions(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture()
	student := newTestStudent(t)
	payment := newPayment(t, student.ID)
	f.payments.On("FindByID", ctx, payment.ID).Return(payment, nil)
	f.payments.On("Update", ctx, payment).Return(nil)

	_, err := f.svc.Refund(ctx, payment.ID, "")
	assert.Equal(t, "PAYMENT_INVALID_TRANSITION", shared.CodeOf(err))

	_, err = f.svc.Pay(ctx, shared.NewActor(uuid.New(), shared.RoleStudent), payment.ID, PayInput{Method: finance.PaymentMethodCard})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	dto, err := f.svc.Pay(ctx, student.Actor(), payment.ID, PayInput{Method: finance.PaymentMethodCard, Reference: "TX-1"})
	require.NoError(t, err)
	assert.Equal(t, finance.PaymentStatusPaid, dto.Status)
	assert.Equal(t, "TX-1", dto.Reference)
	assert.NotNil(t, dto.PaidAt)

	_, err = f.svc.Cancel(ctx, payment.ID, "")
	assert.Equal(t, "PAYMENT_INVALID_TRANSITION", shared.CodeOf(err))

	dto, err = f.svc.Refund(ctx, payment.ID, "moved out")
	require.NoError(t, err)
	assert.Equal(t, finance.PaymentStatusRefunded, dto.Status)
	assert.Equal(t, []string{finance.EventTypePaymentPaid, finance.EventTypePaymentRefunded}, f.pub.types())
}

func TestPaymentService_SummaryScopesStudents(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture()
	actor := shared.NewActor(uuid.New(), shared.RoleStudent)
	other := uuid.New()

	f.payments.On("Summarize", ctx, mock.MatchedBy(func(id *uuid.UUID) bool {
		return id != nil && *id == actor.UserID
	})).Return(&finance.PaymentSummary{
		TotalPaid:    decimal.NewFromInt(900),
		TotalPending: decimal.NewFromInt(450),
		TotalOverdue: decimal.NewFromInt(50),
	}, nil)

	sum, err := f.svc.Summary(ctx, actor, &other)
	require.NoError(t, err)
	assert.True(t, sum.Outstanding.Equal(decimal.NewFromInt(500)))
}

func TestPaymentService_MonthlyTotals(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture()
	admin := shared.NewActor(uuid.New(), shared.RoleAdmin)
	f.payments.On("MonthlyTotals", ctx, 2026, (*uuid.UUID)(nil)).Return([]finance.MonthlyTotal{
		{Month: "2026-02", Total: decimal.NewFromInt(1200), Count: 3},
		{Month: "2026-09", Total: decimal.NewFromInt(300), Count: 1},
	}, nil)

	out, err := f.svc.MonthlyTotals(ctx, admin, 2026, nil)
	require.NoError(t, err)
	require.Len(t, out.Months, 12)
	assert.Equal(t, "2026-01", out.Months[0].Month)
	assert.True(t, out.Months[0].Total.IsZero())
	assert.True(t, out.Months[1].Total.Equal(decimal.NewFromInt(1200)))
	assert.True(t, out.Total.Equal(decimal.NewFromInt(1500)))

	_, err = f.svc.MonthlyTotals(ctx, admin, 1999, nil)
	assert.Equal(t, "INVALID_YEAR", shared.CodeOf(err))
}

func TestPaymentService_Receipt(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture()
	student := newTestStudent(t)
	payment := newPayment(t, student.ID)
	f.payments.On("FindByID", ctx, payment.ID).Return(payment, nil)
	f.users.On("FindByID", ctx, student.ID).Return(student, nil)

	_, err := f.svc.Receipt(ctx, student.Actor(), payment.ID)
	assert.Equal(t, "PAYMENT_NOT_PAID", shared.CodeOf(err))

	require.NoError(t, payment.MarkPaid(finance.PaymentMethodCash, "desk"))
	file, err := f.svc.Receipt(ctx, student.Actor(), payment.ID)
	require.NoError(t, err)
	assert.Contains(t, file.FileName, "receipt-R")
	assert.Contains(t, string(file.Content), "%PDF")
	require.NotNil(t, f.renderer.last)
	assert.Contains(t, f.renderer.last.HTML, "Maple Hall")
	assert.Contains(t, f.renderer.last.HTML, student.Name)
}

func TestPaymentService_MarkOverdue(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture()
	now := time.Now()
	late := newPayment(t, uuid.New())
	late.DueDate = valueobject.Today().AddDate(0, 0, -3)
	f.payments.On("FindPendingDueBefore", ctx, valueobject.TruncateDay(now)).Return([]*finance.Payment{late}, nil)
	f.payments.On("Update", ctx, late).Return(nil)

	n, err := f.svc.MarkOverdue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, finance.PaymentStatusOverdue, late.Status)
	assert.Equal(t, []string{finance.EventTypePaymentOverdue}, f.pub.types())
}

func TestPaymentService_GenerateRent(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture()
	roomID := uuid.New()
	room, err := housing.NewRoom("C-301", "C", 3, housing.RoomTypeTriple, 3, decimal.NewFromInt(380))
	require.NoError(t, err)
	room.ID = roomID

	fresh := newActiveBooking(t, uuid.New(), roomID)
	charged := newActiveBooking(t, uuid.New(), roomID)
	broken := newActiveBooking(t, uuid.New(), uuid.New())

	f.bookings.On("FindActive", ctx).Return([]*housing.Booking{fresh, charged, broken}, nil)
	f.payments.On("ExistsForBookingMonth", ctx, fresh.ID, finance.PaymentTypeRent, "2026-12").Return(false, nil)
	f.payments.On("ExistsForBookingMonth", ctx, charged.ID, finance.PaymentTypeRent, "2026-12").Return(true, nil)
	f.payments.On("ExistsForBookingMonth", ctx, broken.ID, finance.PaymentTypeRent, "2026-12").Return(false, nil)
	f.rooms.On("FindByID", ctx, roomID).Return(room, nil).Once()
	f.rooms.On("FindByID", ctx, broken.RoomID).Return(nil, shared.ErrNotFound)
	f.payments.On("Create", ctx, mock.MatchedBy(func(p *finance.Payment) bool {
		return p.BookingID != nil && *p.BookingID == fresh.ID &&
			p.Amount.Equal(decimal.NewFromInt(380)) &&
			p.DueDate.Equal(time.Date(2026, 12, 5, 0, 0, 0, 0, time.UTC))
	})).Return(nil)

	result, err := f.svc.GenerateRent(ctx, "2026-12")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, broken.ID, *result.Errors[0].ID)

	_, err = f.svc.GenerateRent(ctx, "2026-13")
	assert.Equal(t, "INVALID_BILLING_MONTH", shared.CodeOf(err))
}

func TestBookingConfirmedHandler(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture()
	handler := NewBookingConfirmedHandler(f.svc, zap.NewNop())
	assert.Equal(t, []string{housing.EventTypeBookingConfirmed}, handler.EventTypes())

	room, err := housing.NewRoom("A-1", "", 0, housing.RoomTypeSingle, 1, decimal.NewFromInt(600))
	require.NoError(t, err)
	room.ID = uuid.New()
	start := valueobject.Today().AddDate(0, 1, 0)
	booking, err := housing.NewBooking(uuid.New(), room.ID, start, start.AddDate(0, 6, 0), "")
	require.NoError(t, err)
	booking.ID = uuid.New()
	booking.ClearEvents()
	require.NoError(t, booking.Confirm())
	event := booking.PendingEvents()[0]

	month := finance.BillingMonthOf(start)
	f.bookings.On("FindByID", ctx, booking.ID).Return(booking, nil)
	f.payments.On("ExistsForBookingMonth", ctx, booking.ID, finance.PaymentTypeRent, month).Return(false, nil).Once()
	f.rooms.On("FindByID", ctx, room.ID).Return(room, nil)
	f.payments.On("Create", ctx, mock.MatchedBy(func(p *finance.Payment) bool {
		return p.BillingMonth == month && p.DueDate.Equal(start)
	})).Return(nil).Once()

	require.NoError(t, handler.Handle(ctx, event))

	f.payments.On("ExistsForBookingMonth", ctx, booking.ID, finance.PaymentTypeRent, month).Return(true, nil)
	require.NoError(t, handler.Handle(ctx, event))
	f.payments.AssertNumberOfCalls(t, "Create", 1)

	other := shared.NewBaseDomainEvent("Other", housing.AggregateTypeBooking, booking.ID)
	assert.Error(t, handler.Handle(ctx, &other))
}
