package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/community"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockNotificationRepository is a mock implementation of notification.Repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	args := m.Called(ctx, ns)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter notification.Filter) ([]*notification.Notification, int64, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*notification.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockUserRepository mocks the recipient lookups
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

func (m *MockUserRepository) FindIDsByRole(ctx context.Context, role shared.Role) ([]uuid.UUID, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockEventRepository mocks registration lookups
type MockEventRepository struct {
	community.EventRepository
	mock.Mock
}

func (m *MockEventRepository) ListRegistrations(ctx context.Context, eventID uuid.UUID) ([]community.Registration, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]community.Registration), args.Error(1)
}

// recordingDispatcher remembers dispatched notifications and can fail on demand
type recordingDispatcher struct {
	sent []*notification.Notification
	fail bool
}

func (d *recordingDispatcher) Dispatch(_ context.Context, n *notification.Notification) error {
	if d.fail {
		return errors.New("webhook down")
	}
	d.sent = append(d.sent, n)
	return nil
}

// capture stores batches passed to CreateBatch
type capture struct {
	batches [][]*notification.Notification
}

func (c *capture) expect(repo *MockNotificationRepository) {
	repo.On("CreateBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		c.batches = append(c.batches, args.Get(1).([]*notification.Notification))
	}).Return(nil)
}

func (c *capture) all() []*notification.Notification {
	var out []*notification.Notification
	for _, b := range c.batches {
		out = append(out, b...)
	}
	return out
}
