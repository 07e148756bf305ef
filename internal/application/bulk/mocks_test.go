package bulkapp

import (
	"context"
	"sync"

	"github.com/google/uuid"
	financeapp "github.com/hostelhub/backend/internal/application/finance"
	housingapp "github.com/hostelhub/backend/internal/application/housing"
	identityapp "github.com/hostelhub/backend/internal/application/identity"
	welfareapp "github.com/hostelhub/backend/internal/application/welfare"
	"github.com/hostelhub/backend/internal/domain/bulk"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// memoryHistory is an in-memory bulk.OperationRepository
type memoryHistory struct {
	mu  sync.Mutex
	ops map[uuid.UUID]*bulk.Operation
	err error
}

func newMemoryHistory() *memoryHistory {
	return &memoryHistory{ops: map[uuid.UUID]*bulk.Operation{}}
}

func (h *memoryHistory) Save(_ context.Context, op *bulk.Operation) error {
	if h.err != nil {
		return h.err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	cp := *op
	h.ops[op.ID] = &cp
	return nil
}

func (h *memoryHistory) FindByID(_ context.Context, id uuid.UUID) (*bulk.Operation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	op, ok := h.ops[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return op, nil
}

func (h *memoryHistory) FindAll(_ context.Context, filter bulk.OperationFilter) ([]*bulk.Operation, int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*bulk.Operation
	for _, op := range h.ops {
		if filter.Action != nil && op.Action != *filter.Action {
			continue
		}
		out = append(out, op)
	}
	return out, int64(len(out)), nil
}

// MockUsers is a mock of UserActions
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Create(ctx context.Context, input identityapp.CreateUserInput) (*identityapp.UserDTO, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.UserDTO), args.Error(1)
}

func (m *MockUsers) SetStatus(ctx context.Context, actor shared.Actor, id uuid.UUID, active bool) (*identityapp.UserDTO, error) {
	args := m.Called(ctx, actor, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.UserDTO), args.Error(1)
}

// MockRooms is a mock of RoomActions
type MockRooms struct {
	mock.Mock
}

func (m *MockRooms) Create(ctx context.Context, input housingapp.CreateRoomInput) (*housingapp.RoomDTO, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*housingapp.RoomDTO), args.Error(1)
}

// MockBookings is a mock of BookingActions
type MockBookings struct {
	mock.Mock
}

func (m *MockBookings) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID, reason string) (*housingapp.BookingDTO, error) {
	args := m.Called(ctx, actor, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*housingapp.BookingDTO), args.Error(1)
}

// MockPayments is a mock of PaymentActions
type MockPayments struct {
	mock.Mock
}

func (m *MockPayments) UpdateStatus(ctx context.Context, id uuid.UUID, status finance.PaymentStatus, method finance.PaymentMethod, reference, notes string) (*financeapp.PaymentDTO, error) {
	args := m.Called(ctx, id, status, method, reference, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.PaymentDTO), args.Error(1)
}

func (m *MockPayments) GenerateRent(ctx context.Context, month string) (*bulk.Result, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.Result), args.Error(1)
}

// MockLeaves is a mock of LeaveActions
type MockLeaves struct {
	mock.Mock
}

func (m *MockLeaves) Review(ctx context.Context, reviewer shared.Actor, id uuid.UUID, approve bool, note string) (*welfareapp.LeaveDTO, error) {
	args := m.Called(ctx, reviewer, id, approve, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*welfareapp.LeaveDTO), args.Error(1)
}

// MockNotifier is a mock of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, recipients []uuid.UUID, t notification.Type, title, message, link string) (int, error) {
	args := m.Called(ctx, recipients, t, title, message, link)
	return args.Int(0), args.Error(1)
}

type fixture struct {
	svc      *Service
	history  *memoryHistory
	users    *MockUsers
	rooms    *MockRooms
	bookings *MockBookings
	payments *MockPayments
	leaves   *MockLeaves
	notifier *MockNotifier
}

func newFixture() *fixture {
	f := &fixture{
		history:  newMemoryHistory(),
		users:    new(MockUsers),
		rooms:    new(MockRooms),
		bookings: new(MockBookings),
		payments: new(MockPayments),
		leaves:   new(MockLeaves),
		notifier: new(MockNotifier),
	}
	f.svc = NewService(f.history, Services{
		Users:    f.users,
		Rooms:    f.rooms,
		Bookings: f.bookings,
		Payments: f.payments,
		Leaves:   f.leaves,
		Notifier: f.notifier,
	}, Config{MaxItems: 3, MaxImportRows: 10}, nil)
	return f
}

var adminActor = shared.NewActor(uuid.New(), shared.RoleAdmin)
