package community

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotice(t *testing.T) {
	t.Run("defaults audience and priority", func(t *testing.T) {
		n, err := NewNotice(uuid.New(), " Water cut ", "No water on Monday", "", "", false, nil)
		require.NoError(t, err)
		assert.Equal(t, "Water cut", n.Title)
		assert.Equal(t, AudienceAll, n.Audience)
		assert.Equal(t, PriorityNormal, n.Priority)
		require.Len(t, n.PendingEvents(), 1)
		assert.Equal(t, EventTypeNoticePublished, n.PendingEvents()[0].EventType())
	})

	t.Run("validates fields", func(t *testing.T) {
		_, err := NewNotice(uuid.New(), "", "x", AudienceAll, PriorityLow, false, nil)
		assert.Equal(t, "INVALID_TITLE", shared.CodeOf(err))

		_, err = NewNotice(uuid.New(), "t", "x", Audience("STAFF"), PriorityLow, false, nil)
		assert.Equal(t, "INVALID_AUDIENCE", shared.CodeOf(err))

		past := time.Now().Add(-time.Hour)
		_, err = NewNotice(uuid.New(), "t", "x", AudienceAll, PriorityLow, false, &past)
		assert.Equal(t, "INVALID_EXPIRY", shared.CodeOf(err))
	})
}

func TestNotice_Visibility(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	n, err := NewNotice(uuid.New(), "Inspection", "Room inspection", AudienceStudent, PriorityHigh, true, &expires)
	require.NoError(t, err)

	now := time.Now()
	assert.True(t, n.VisibleTo(shared.RoleStudent, now))
	assert.False(t, n.VisibleTo(shared.RoleAdmin, now))
	assert.False(t, n.VisibleTo(shared.RoleStudent, expires.Add(time.Minute)))

	assert.True(t, AudienceAll.Includes(shared.RoleAdmin))
	assert.Equal(t, []Audience{AudienceAll, AudienceStudent}, VisibleAudiences(shared.RoleStudent))
	assert.Equal(t, []shared.Role{shared.RoleStudent}, AudienceStudent.Roles())
}

func TestNotice_Update(t *testing.T) {
	n, err := NewNotice(uuid.New(), "Title", "Body", AudienceAll, PriorityLow, false, nil)
	require.NoError(t, err)

	pinned := true
	audience := AudienceAdmin
	require.NoError(t, n.Update(NoticeUpdate{Pinned: &pinned, Audience: &audience}))
	assert.True(t, n.Pinned)
	assert.Equal(t, AudienceAdmin, n.Audience)

	empty := " "
	assert.Equal(t, "INVALID_CONTENT", shared.CodeOf(n.Update(NoticeUpdate{Content: &empty})))
	assert.Equal(t, "Body", n.Content)
}

func newTestEvent(t *testing.T, capacity int) *Event {
	t.Helper()
	start := time.Now().Add(24 * time.Hour)
	e, err := NewEvent(uuid.New(), "Movie night", "", "Common room", start, start.Add(2*time.Hour), capacity)
	require.NoError(t, err)
	return e
}

func TestNewEvent(t *testing.T) {
	e := newTestEvent(t, 2)
	assert.Equal(t, EventStatusScheduled, e.Status)

	start := time.Now().Add(time.Hour)
	_, err := NewEvent(uuid.New(), "x", "", "", start, start, 0)
	assert.Equal(t, "INVALID_EVENT_TIME", shared.CodeOf(err))

	past := time.Now().Add(-time.Hour)
	_, err = NewEvent(uuid.New(), "x", "", "", past, past.Add(2*time.Hour), 0)
	assert.Equal(t, "INVALID_EVENT_TIME", shared.CodeOf(err))

	_, err = NewEvent(uuid.New(), "x", "", "", start, start.Add(time.Hour), -1)
	assert.Equal(t, "INVALID_CAPACITY", shared.CodeOf(err))
}

func TestEvent_CanRegister(t *testing.T) {
	now := time.Now()

	limited := newTestEvent(t, 2)
	assert.NoError(t, limited.CanRegister(1, now))
	assert.Equal(t, "EVENT_FULL", shared.CodeOf(limited.CanRegister(2, now)))
	assert.Equal(t, "EVENT_STARTED", shared.CodeOf(limited.CanRegister(0, limited.StartsAt)))

	unlimited := newTestEvent(t, 0)
	assert.True(t, unlimited.IsUnlimited())
	assert.NoError(t, unlimited.CanRegister(1000, now))

	require.NoError(t, unlimited.Cancel())
	assert.Equal(t, "EVENT_NOT_SCHEDULED", shared.CodeOf(unlimited.CanRegister(0, now)))
	assert.Equal(t, "EVENT_NOT_SCHEDULED", shared.CodeOf(unlimited.Cancel()))
}

func TestEvent_Update(t *testing.T) {
	e := newTestEvent(t, 10)
	capacity := 3
	assert.Equal(t, "EVENT_CAPACITY_BELOW_REGISTRATIONS", shared.CodeOf(e.Update(EventUpdate{Capacity: &capacity}, 4)))
	require.NoError(t, e.Update(EventUpdate{Capacity: &capacity}, 3))
	assert.Equal(t, 3, e.Capacity)

	require.NoError(t, e.Complete())
	assert.Equal(t, "EVENT_NOT_SCHEDULED", shared.CodeOf(e.Update(EventUpdate{}, 0)))
	assert.True(t, e.HasEnded(e.EndsAt.Add(time.Second)))
}
