package welfare

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/welfare"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockComplaintRepository is a mock implementation of welfare.ComplaintRepository
type MockComplaintRepository struct {
	mock.Mock
}

func (m *MockComplaintRepository) Create(ctx context.Context, c *welfare.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockComplaintRepository) Update(ctx context.Context, c *welfare.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockComplaintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockComplaintRepository) FindByID(ctx context.Context, id uuid.UUID) (*welfare.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*welfare.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) FindAll(ctx context.Context, filter welfare.ComplaintFilter) ([]*welfare.Complaint, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*welfare.Complaint), args.Get(1).(int64), args.Error(2)
}

func (m *MockComplaintRepository) CountByStatus(ctx context.Context) (map[welfare.ComplaintStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[welfare.ComplaintStatus]int64), args.Error(1)
}

func (m *MockComplaintRepository) CountByCategory(ctx context.Context) (map[welfare.ComplaintCategory]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[welfare.ComplaintCategory]int64), args.Error(1)
}

// MockLeaveRepository is a mock implementation of welfare.LeaveRepository
type MockLeaveRepository struct {
	mock.Mock
}

func (m *MockLeaveRepository) Create(ctx context.Context, l *welfare.LeaveApplication) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLeaveRepository) Update(ctx context.Context, l *welfare.LeaveApplication) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLeaveRepository) FindByID(ctx context.Context, id uuid.UUID) (*welfare.LeaveApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*welfare.LeaveApplication), args.Error(1)
}

func (m *MockLeaveRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*welfare.LeaveApplication, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*welfare.LeaveApplication), args.Error(1)
}

func (m *MockLeaveRepository) FindAll(ctx context.Context, filter welfare.LeaveFilter) ([]*welfare.LeaveApplication, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*welfare.LeaveApplication), args.Get(1).(int64), args.Error(2)
}

func (m *MockLeaveRepository) ExistsOverlapping(ctx context.Context, studentID uuid.UUID, from, to time.Time) (bool, error) {
	args := m.Called(ctx, studentID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeaveRepository) CountByStatus(ctx context.Context, status welfare.LeaveStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockRoomRepository mocks the room lookups used when filing complaints
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

// MockUserRepository mocks user lookups
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

// memoryStorage is an in-memory common.ObjectStorage
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *memoryStorage) Put(_ context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	s.types[key] = contentType
	return nil
}

func (s *memoryStorage) Get(_ context.Context, key string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, "", shared.ErrNotFound
	}
	return data, s.types[key], nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	delete(s.types, key)
	return nil
}

func (s *memoryStorage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memoryStorage) PresignGet(_ context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	return "https://files.test/" + key + "?sig=1", time.Now().Add(ttl), nil
}

var _ common.ObjectStorage = (*memoryStorage)(nil)

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

func newTestComplaint(t *testing.T, studentID uuid.UUID) *welfare.Complaint {
	t.Helper()
	c, err := welfare.NewComplaint(studentID, nil, welfare.CategoryMaintenance, "Leaking tap", "The bathroom tap drips all night", "")
	require.NoError(t, err)
	c.ClearEvents()
	return c
}

func newTestLeave(t *testing.T, studentID uuid.UUID, startIn int) *welfare.LeaveApplication {
	t.Helper()
	from := time.Now().AddDate(0, 0, startIn)
	l, err := welfare.NewLeaveApplication(studentID, from, from.AddDate(0, 0, 3), "Family visit", "Home", "")
	require.NoError(t, err)
	l.ClearEvents()
	return l
}

func studentActor() shared.Actor {
	return shared.NewActor(uuid.New(), shared.RoleStudent)
}

func adminActor() shared.Actor {
	return shared.NewActor(uuid.New(), shared.RoleAdmin)
}
