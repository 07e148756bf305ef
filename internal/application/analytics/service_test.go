package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/domain/report"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/welfare"
	"github.com/hostelhub/backend/internal/infrastructure/cache"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) CountStudents(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnalyticsRepository) OccupancyOverview(ctx context.Context) (*report.OccupancyOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.OccupancyOverview), args.Error(1)
}

func (m *MockAnalyticsRepository) OccupancyBy(ctx context.Context, dim report.OccupancyDimension) ([]report.OccupancyGroup, error) {
	args := m.Called(ctx, dim)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.OccupancyGroup), args.Error(1)
}

func (m *MockAnalyticsRepository) BookingsByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockAnalyticsRepository) CountUpcomingEvents(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnalyticsRepository) CurrentBooking(ctx context.Context, studentID uuid.UUID) (*report.CurrentBooking, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.CurrentBooking), args.Error(1)
}

func (m *MockAnalyticsRepository) CountLeavesByStudent(ctx context.Context, studentID uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, studentID, status)
	return args.Get(0).(int64), args.Error(1)
}

type MockPaymentRepository struct {
	finance.PaymentRepository
	mock.Mock
}

func (m *MockPaymentRepository) Summarize(ctx context.Context, studentID *uuid.UUID) (*finance.PaymentSummary, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).(*finance.PaymentSummary), args.Error(1)
}

func (m *MockPaymentRepository) MonthlyTotals(ctx context.Context, year int, studentID *uuid.UUID) ([]finance.MonthlyTotal, error) {
	args := m.Called(ctx, year, studentID)
	return args.Get(0).([]finance.MonthlyTotal), args.Error(1)
}

type MockComplaintRepository struct {
	welfare.ComplaintRepository
	mock.Mock
}

func (m *MockComplaintRepository) CountByStatus(ctx context.Context) (map[welfare.ComplaintStatus]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[welfare.ComplaintStatus]int64), args.Error(1)
}

func (m *MockComplaintRepository) CountByCategory(ctx context.Context) (map[welfare.ComplaintCategory]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[welfare.ComplaintCategory]int64), args.Error(1)
}

type MockLeaveRepository struct {
	welfare.LeaveRepository
	mock.Mock
}

func (m *MockLeaveRepository) CountByStatus(ctx context.Context, status welfare.LeaveStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationRepository struct {
	notification.Repository
	mock.Mock
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type fixture struct {
	analytics     *MockAnalyticsRepository
	payments      *MockPaymentRepository
	complaints    *MockComplaintRepository
	leaves        *MockLeaveRepository
	notifications *MockNotificationRepository
	svc           *Service
	now           time.Time
}

func newFixture(t *testing.T, withCache bool) *fixture {
	t.Helper()
	f := &fixture{
		analytics:     new(MockAnalyticsRepository),
		payments:      new(MockPaymentRepository),
		complaints:    new(MockComplaintRepository),
		leaves:        new(MockLeaveRepository),
		notifications: new(MockNotificationRepository),
		now:           time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
	}
	var c Cache
	if withCache {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		c = cache.NewRedisJSONCache(client, "test:")
	}
	f.svc = NewService(f.analytics, f.payments, f.complaints, f.leaves, f.notifications, c, time.Minute, nil)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) expectDashboard(ctx context.Context) {
	f.analytics.On("CountStudents", ctx).Return(int64(120), nil)
	f.analytics.On("OccupancyOverview", ctx).Return(&report.OccupancyOverview{TotalRooms: 40, TotalBeds: 100, OccupiedBeds: 75, OccupancyRate: 0.75}, nil)
	f.analytics.On("BookingsByStatus", ctx).Return(map[string]int64{"ACTIVE": 75, "PENDING": 4}, nil)
	f.analytics.On("CountUpcomingEvents", ctx, f.now).Return(int64(3), nil)
	f.payments.On("MonthlyTotals", ctx, 2026, (*uuid.UUID)(nil)).Return([]finance.MonthlyTotal{
		{Month: "2026-09", Total: decimal.NewFromInt(30000)},
		{Month: "2026-10", Total: decimal.NewFromInt(12500)},
	}, nil)
	f.payments.On("Summarize", ctx, (*uuid.UUID)(nil)).Return(&finance.PaymentSummary{
		TotalPending: decimal.NewFromInt(4000), TotalOverdue: decimal.NewFromInt(900),
	}, nil)
	f.complaints.On("CountByStatus", ctx).Return(map[welfare.ComplaintStatus]int64{
		welfare.ComplaintStatusOpen: 5, welfare.ComplaintStatusInProgress: 2, welfare.ComplaintStatusClosed: 9,
	}, nil)
	f.leaves.On("CountByStatus", ctx, welfare.LeaveStatusPending).Return(int64(6), nil)
}

func TestService_AdminDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.expectDashboard(ctx)

	d, err := f.svc.AdminDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(120), d.Students)
	assert.Equal(t, int64(75), d.Occupancy.OccupiedBeds)
	assert.True(t, decimal.NewFromInt(12500).Equal(d.RevenueThisMonth))
	assert.True(t, decimal.NewFromInt(900).Equal(d.OverdueAmount))
	assert.Equal(t, int64(7), d.OpenComplaints)
	assert.Equal(t, int64(6), d.PendingLeaves)
	assert.Equal(t, int64(3), d.UpcomingEvents)
}

func TestService_CachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	f.expectDashboard(ctx)

	first, err := f.svc.AdminDashboard(ctx)
	require.NoError(t, err)
	second, err := f.svc.AdminDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Students, second.Students)
	f.analytics.AssertNumberOfCalls(t, "CountStudents", 1)

	h := NewCacheInvalidator(f.svc, nil)
	assert.Contains(t, h.EventTypes(), housing.EventTypeBookingConfirmed)
	other := shared.NewBaseDomainEvent(housing.EventTypeBookingConfirmed, housing.AggregateTypeBooking, uuid.New())
	require.NoError(t, h.Handle(ctx, &other))

	_, err = f.svc.AdminDashboard(ctx)
	require.NoError(t, err)
	f.analytics.AssertNumberOfCalls(t, "CountStudents", 2)
}

func TestService_OccupancyBy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, err := f.svc.OccupancyBy(ctx, "wing")
	assert.Equal(t, "INVALID_DIMENSION", shared.CodeOf(err))

	f.analytics.On("OccupancyBy", ctx, report.ByBlock).Return([]report.OccupancyGroup{
		{Key: "A", Rooms: 10, Capacity: 20, Occupied: 15},
		{Key: "B", Rooms: 2, Capacity: 0, Occupied: 0},
	}, nil)
	groups, err := f.svc.OccupancyBy(ctx, report.ByBlock)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.InDelta(t, 0.75, groups[0].OccupancyRate, 1e-9)
	assert.Zero(t, groups[1].OccupancyRate)
}

func TestService_Revenue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, err := f.svc.Revenue(ctx, 1999)
	assert.Equal(t, "INVALID_YEAR", shared.CodeOf(err))

	f.payments.On("MonthlyTotals", ctx, 2026, (*uuid.UUID)(nil)).Return([]finance.MonthlyTotal{
		{Month: "2026-02", Total: decimal.NewFromInt(100)},
		{Month: "2026-10", Total: decimal.NewFromInt(50)},
	}, nil)
	rev, err := f.svc.Revenue(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2026, rev.Year)
	assert.Len(t, rev.Months, 12)
	assert.True(t, decimal.NewFromInt(150).Equal(rev.Total))
}

func TestService_Complaints(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.complaints.On("CountByCategory", ctx).Return(map[welfare.ComplaintCategory]int64{
		welfare.CategoryFood: 2, welfare.CategoryNoise: 7, welfare.CategoryOther: 2,
	}, nil)
	f.complaints.On("CountByStatus", ctx).Return(map[welfare.ComplaintStatus]int64{welfare.ComplaintStatusOpen: 11}, nil)

	stats, err := f.svc.Complaints(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(11), stats.Total)
	assert.Equal(t, []report.CountByKey{
		{Key: "NOISE", Count: 7}, {Key: "FOOD", Count: 2}, {Key: "OTHER", Count: 2},
	}, stats.ByCategory)
}

func TestService_StudentDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	actor := shared.NewActor(uuid.New(), shared.RoleStudent)

	f.analytics.On("CurrentBooking", ctx, actor.UserID).Return(nil, nil)
	f.payments.On("Summarize", ctx, &actor.UserID).Return(&finance.PaymentSummary{TotalPending: decimal.NewFromInt(450)}, nil)
	f.notifications.On("CountUnread", ctx, actor.UserID).Return(int64(4), nil)
	f.analytics.On("CountUpcomingEvents", ctx, f.now).Return(int64(2), nil)
	f.analytics.On("CountLeavesByStudent", ctx, actor.UserID, "PENDING").Return(int64(1), nil)

	d, err := f.svc.StudentDashboard(ctx, actor)
	require.NoError(t, err)
	assert.Nil(t, d.Booking)
	assert.True(t, decimal.NewFromInt(450).Equal(d.PendingAmount))
	assert.Equal(t, int64(4), d.UnreadNotifications)

	_, err = f.svc.StudentDashboard(ctx, actor)
	require.NoError(t, err)
	f.notifications.AssertNumberOfCalls(t, "CountUnread", 2)
}
