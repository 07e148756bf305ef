package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/printing"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	identity.PasswordCost = bcrypt.MinCost
	m.Run()
}

// MockPaymentRepository is a mock implementation of finance.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *finance.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *finance.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*finance.Payment, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter finance.PaymentFilter) ([]*finance.Payment, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*finance.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) ExistsForBookingMonth(ctx context.Context, bookingID uuid.UUID, paymentType finance.PaymentType, billingMonth string) (bool, error) {
	args := m.Called(ctx, bookingID, paymentType, billingMonth)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) FindOutstandingByBooking(ctx context.Context, bookingID uuid.UUID) ([]*finance.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPendingDueBefore(ctx context.Context, day time.Time) ([]*finance.Payment, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Summarize(ctx context.Context, studentID *uuid.UUID) (*finance.PaymentSummary, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.PaymentSummary), args.Error(1)
}

func (m *MockPaymentRepository) MonthlyTotals(ctx context.Context, year int, studentID *uuid.UUID) ([]finance.MonthlyTotal, error) {
	args := m.Called(ctx, year, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.MonthlyTotal), args.Error(1)
}

// MockUserRepository mocks the user lookups of the payment service
type MockUserRepository struct {
	identity.UserRepository
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

// MockBookingRepository mocks the booking lookups of the payment service
type MockBookingRepository struct {
	housing.BookingRepository
	mock.Mock
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*housing.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*housing.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindActive(ctx context.Context) ([]*housing.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*housing.Booking), args.Error(1)
}

// MockRoomRepository mocks the room lookups of the payment service
type MockRoomRepository struct {
	housing.RoomRepository
	mock.Mock
}

func (m *MockRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*housing.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*housing.Room), args.Error(1)
}

// MockPublisher records published events
type MockPublisher struct {
	events []shared.DomainEvent
}

func (p *MockPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *MockPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// fakeRenderer returns the HTML it was given as the PDF body
type fakeRenderer struct {
	last *printing.RenderRequest
}

func (r *fakeRenderer) Render(_ context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	r.last = req
	return &printing.RenderResult{PDFData: []byte("%PDF-1.4 " + req.Title), PageCount: 1}, nil
}

func (r *fakeRenderer) Close() error { return nil }

func newTestStudent(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewStudent("payer-"+uuid.NewString()[:8]+"@uni.edu", "Pat Payer", "Password123")
	require.NoError(t, err)
	user.ID = uuid.New()
	user.ClearEvents()
	return user
}
