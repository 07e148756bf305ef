package community

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/community"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newEventService(events *MockEventRepository, users *MockUserRepository, pub *MockPublisher) *EventService {
	return NewEventService(events, users, newTxScope(events), pub, nil)
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()
	events := new(MockEventRepository)
	pub := &MockPublisher{}
	svc := newEventService(events, new(MockUserRepository), pub)

	events.On("Create", ctx, mock.AnythingOfType("*community.Event")).Return(nil)

	start := time.Now().Add(24 * time.Hour)
	dto, err := svc.Create(ctx, adminActor(), CreateEventInput{
		Title: "Quiz", Location: "Hall", StartsAt: start, EndsAt: start.Add(time.Hour), Capacity: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, community.EventStatusScheduled, dto.Status)
	require.NotNil(t, dto.SpotsLeft)
	assert.Equal(t, int64(30), *dto.SpotsLeft)
	assert.Equal(t, []string{community.EventTypeEventScheduled}, pub.types())

	_, err = svc.Create(ctx, adminActor(), CreateEventInput{
		Title: "Past", StartsAt: time.Now().Add(-2 * time.Hour), EndsAt: time.Now().Add(-time.Hour),
	})
	assert.Equal(t, "INVALID_EVENT_TIME", shared.CodeOf(err))
}

func TestEventService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a registration", func(t *testing.T) {
		events := new(MockEventRepository)
		svc := newEventService(events, new(MockUserRepository), nil)
		event := newTestEvent(t, 2)
		actor := studentActor()

		events.On("FindByIDForUpdate", ctx, event.ID).Return(event, nil)
		events.On("IsRegistered", ctx, event.ID, actor.UserID).Return(false, nil)
		events.On("CountRegistrations", ctx, event.ID).Return(int64(1), nil)
		events.On("AddRegistration", ctx, mock.MatchedBy(func(r *community.Registration) bool {
			return r.EventID == event.ID && r.UserID == actor.UserID && !r.RegisteredAt.IsZero()
		})).Return(nil)

		dto, err := svc.Register(ctx, actor, event.ID)
		require.NoError(t, err)
		assert.True(t, dto.IsRegistered)
		assert.Equal(t, int64(2), dto.RegistrationCount)
		assert.Equal(t, int64(0), *dto.SpotsLeft)
	})

	t.Run("twice is rejected", func(t *testing.T) {
		events := new(MockEventRepository)
		svc := newEventService(events, new(MockUserRepository), nil)
		event := newTestEvent(t, 0)
		actor := studentActor()

		events.On("FindByIDForUpdate", ctx, event.ID).Return(event, nil)
		events.On("IsRegistered", ctx, event.ID, actor.UserID).Return(true, nil)

		_, err := svc.Register(ctx, actor, event.ID)
		assert.Equal(t, "EVENT_ALREADY_REGISTERED", shared.CodeOf(err))
		events.AssertNotCalled(t, "AddRegistration", mock.Anything, mock.Anything)
	})

	t.Run("full event", func(t *testing.T) {
		events := new(MockEventRepository)
		svc := newEventService(events, new(MockUserRepository), nil)
		event := newTestEvent(t, 3)
		actor := studentActor()

		events.On("FindByIDForUpdate", ctx, event.ID).Return(event, nil)
		events.On("IsRegistered", ctx, event.ID, actor.UserID).Return(false, nil)
		events.On("CountRegistrations", ctx, event.ID).Return(int64(3), nil)

		_, err := svc.Register(ctx, actor, event.ID)
		assert.Equal(t, "EVENT_FULL", shared.CodeOf(err))
	})

	t.Run("cancelled event", func(t *testing.T) {
		events := new(MockEventRepository)
		svc := newEventService(events, new(MockUserRepository), nil)
		event := newTestEvent(t, 0)
		require.NoError(t, event.Cancel())
		actor := studentActor()

		events.On("FindByIDForUpdate", ctx, event.ID).Return(event, nil)
		events.On("IsRegistered", ctx, event.ID, actor.UserID).Return(false, nil)
		events.On("CountRegistrations", ctx, event.ID).Return(int64(0), nil)

		_, err := svc.Register(ctx, actor, event.ID)
		assert.Equal(t, "EVENT_NOT_SCHEDULED", shared.CodeOf(err))
	})

	t.Run("unique constraint race maps to already registered", func(t *testing.T) {
		events := new(MockEventRepository)
		svc := newEventService(events, new(MockUserRepository), nil)
		event := newTestEvent(t, 0)
		actor := studentActor()

		events.On("FindByIDForUpdate", ctx, event.ID).Return(event, nil)
		events.On("IsRegistered", ctx, event.ID, actor.UserID).Return(false, nil)
		events.On("CountRegistrations", ctx, event.ID).Return(int64(0), nil)
		events.On("AddRegistration", ctx, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := svc.Register(ctx, actor, event.ID)
		assert.Equal(t, "EVENT_ALREADY_REGISTERED", shared.CodeOf(err))
	})

	t.Run("admins cannot take a seat", func(t *testing.T) {
		events := new(MockEventRepository)
		svc := newEventService(events, new(MockUserRepository), nil)

		_, err := svc.Register(ctx, adminActor(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrStudentOnly)
		events.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	})
}

func TestEventService_Unregister(t *testing.T) {
	ctx := context.Background()
	events := new(MockEventRepository)
	svc := newEventService(events, new(MockUserRepository), nil)
	event := newTestEvent(t, 0)
	actor := studentActor()
	other := studentActor()

	events.On("FindByID", ctx, event.ID).Return(event, nil)
	events.On("IsRegistered", ctx, event.ID, actor.UserID).Return(true, nil)
	events.On("IsRegistered", ctx, event.ID, other.UserID).Return(false, nil)
	events.On("RemoveRegistration", ctx, event.ID, actor.UserID).Return(nil)

	require.NoError(t, svc.Unregister(ctx, actor, event.ID))
	assert.Equal(t, "EVENT_NOT_REGISTERED", shared.CodeOf(svc.Unregister(ctx, other, event.ID)))
}

func TestEventService_UpdateCapacityBelowRegistrations(t *testing.T) {
	ctx := context.Background()
	events := new(MockEventRepository)
	svc := newEventService(events, new(MockUserRepository), nil)
	event := newTestEvent(t, 10)

	events.On("FindByID", ctx, event.ID).Return(event, nil)
	events.On("CountRegistrations", ctx, event.ID).Return(int64(5), nil)
	events.On("Update", ctx, event).Return(nil)

	capacity := 4
	_, err := svc.Update(ctx, event.ID, UpdateEventInput{Capacity: &capacity})
	assert.Equal(t, "EVENT_CAPACITY_BELOW_REGISTRATIONS", shared.CodeOf(err))

	capacity = 5
	dto, err := svc.Update(ctx, event.ID, UpdateEventInput{Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, int64(0), *dto.SpotsLeft)
}

func TestEventService_Cancel(t *testing.T) {
	ctx := context.Background()
	events := new(MockEventRepository)
	pub := &MockPublisher{}
	svc := newEventService(events, new(MockUserRepository), pub)
	event := newTestEvent(t, 0)

	events.On("FindByID", ctx, event.ID).Return(event, nil)
	events.On("Update", ctx, event).Return(nil)
	events.On("CountRegistrations", ctx, event.ID).Return(int64(7), nil)

	dto, err := svc.Cancel(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, community.EventStatusCancelled, dto.Status)
	assert.Nil(t, dto.SpotsLeft)
	assert.Equal(t, []string{community.EventTypeEventCancelled}, pub.types())

	_, err = svc.Cancel(ctx, event.ID)
	assert.Equal(t, "EVENT_NOT_SCHEDULED", shared.CodeOf(err))
}

func TestEventService_List(t *testing.T) {
	ctx := context.Background()
	events := new(MockEventRepository)
	svc := newEventService(events, new(MockUserRepository), nil)
	actor := studentActor()
	a, b := newTestEvent(t, 5), newTestEvent(t, 0)
	ids := []uuid.UUID{a.ID, b.ID}

	events.On("FindAll", ctx, mock.MatchedBy(func(f community.EventFilter) bool {
		return f.UpcomingOnly && f.Keyword == "movie" && f.Page == 1 && f.PageSize == 20
	})).Return([]*community.Event{a, b}, int64(2), nil)
	events.On("CountRegistrationsByEvents", ctx, ids).Return(map[uuid.UUID]int64{a.ID: 2}, nil)
	events.On("RegisteredEventIDs", ctx, actor.UserID, ids).Return(map[uuid.UUID]bool{b.ID: true}, nil)

	page, err := svc.List(ctx, actor, ListEventsInput{UpcomingOnly: true, Search: "movie"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Items[0].RegistrationCount)
	assert.Equal(t, int64(3), *page.Items[0].SpotsLeft)
	assert.False(t, page.Items[0].IsRegistered)
	assert.True(t, page.Items[1].IsRegistered)
	assert.Nil(t, page.Items[1].SpotsLeft)
}

func TestEventService_Attendees(t *testing.T) {
	ctx := context.Background()
	events := new(MockEventRepository)
	users := new(MockUserRepository)
	svc := newEventService(events, users, nil)
	event := newTestEvent(t, 0)

	student, err := identity.NewStudent("ana@uni.edu", "Ana", "Password123")
	require.NoError(t, err)
	unknown := uuid.New()
	regs := []community.Registration{
		{EventID: event.ID, UserID: student.ID, RegisteredAt: time.Now()},
		{EventID: event.ID, UserID: unknown, RegisteredAt: time.Now()},
	}

	events.On("FindByID", ctx, event.ID).Return(event, nil)
	events.On("ListRegistrations", ctx, event.ID).Return(regs, nil)
	users.On("FindByIDs", ctx, []uuid.UUID{student.ID, unknown}).Return([]*identity.User{student}, nil)

	out, err := svc.Attendees(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Ana", out[0].Name)
	assert.Equal(t, "ana@uni.edu", out[0].Email)
	assert.Empty(t, out[1].Name)
}

func TestEventService_CompleteEnded(t *testing.T) {
	ctx := context.Background()
	events := new(MockEventRepository)
	svc := newEventService(events, new(MockUserRepository), nil)
	now := time.Now()
	a, b := newTestEvent(t, 0), newTestEvent(t, 0)

	events.On("FindScheduledEndedBefore", ctx, now).Return([]*community.Event{a, b}, nil)
	events.On("Update", ctx, a).Return(nil)
	events.On("Update", ctx, b).Return(shared.ErrConcurrencyConflict)

	done, err := svc.CompleteEnded(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, done)
	assert.Equal(t, community.EventStatusCompleted, a.Status)
}
