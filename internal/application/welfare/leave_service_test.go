package welfare

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/welfare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type leaveFixture struct {
	leaves *MockLeaveRepository
	users  *MockUserRepository
	pub    *MockPublisher
	svc    *LeaveService
}

func newLeaveFixture() *leaveFixture {
	f := &leaveFixture{
		leaves: new(MockLeaveRepository),
		users:  new(MockUserRepository),
		pub:    &MockPublisher{},
	}
	tx := common.NewNoOpTransactionScope(common.Repositories{UserRepo: f.users, LeaveRepo: f.leaves})
	f.svc = NewLeaveService(f.leaves, tx, f.pub, nil)
	return f
}

func studentUser(id uuid.UUID) *identity.User {
	u := &identity.User{Role: shared.RoleStudent, Status: identity.UserStatusActive}
	u.ID = id
	return u
}

func TestLeaveService_Apply(t *testing.T) {
	ctx := context.Background()
	from := time.Now().AddDate(0, 0, 2)
	to := from.AddDate(0, 0, 4)

	t.Run("creates a pending application", func(t *testing.T) {
		f := newLeaveFixture()
		actor := studentActor()
		f.users.On("FindByID", ctx, actor.UserID).Return(studentUser(actor.UserID), nil)
		f.leaves.On("ExistsOverlapping", ctx, actor.UserID, mock.Anything, mock.Anything).Return(false, nil)
		f.leaves.On("Create", ctx, mock.AnythingOfType("*welfare.LeaveApplication")).Return(nil)

		dto, err := f.svc.Apply(ctx, actor, ApplyLeaveInput{FromDate: from, ToDate: to, Reason: "Exam break", Destination: "Home"})
		require.NoError(t, err)
		assert.Equal(t, welfare.LeaveStatusPending, dto.Status)
		assert.Equal(t, 5, dto.Days)
		assert.Equal(t, []string{welfare.EventTypeLeaveRequested}, f.pub.types())
	})

	t.Run("overlap", func(t *testing.T) {
		f := newLeaveFixture()
		actor := studentActor()
		f.users.On("FindByID", ctx, actor.UserID).Return(studentUser(actor.UserID), nil)
		f.leaves.On("ExistsOverlapping", ctx, actor.UserID, mock.Anything, mock.Anything).Return(true, nil)

		_, err := f.svc.Apply(ctx, actor, ApplyLeaveInput{FromDate: from, ToDate: to, Reason: "Again"})
		assert.Equal(t, "LEAVE_OVERLAP", shared.CodeOf(err))
		f.leaves.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, f.pub.events)
	})

	t.Run("dates", func(t *testing.T) {
		f := newLeaveFixture()
		_, err := f.svc.Apply(ctx, studentActor(), ApplyLeaveInput{FromDate: to, ToDate: from, Reason: "x"})
		assert.Equal(t, "INVALID_LEAVE_DATES", shared.CodeOf(err))

		_, err = f.svc.Apply(ctx, studentActor(), ApplyLeaveInput{
			FromDate: time.Now().AddDate(0, 0, -2), ToDate: to, Reason: "x",
		})
		assert.Equal(t, "INVALID_LEAVE_DATES", shared.CodeOf(err))
	})
}

func TestLeaveService_Review(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture()
	admin := adminActor()
	leave := newTestLeave(t, uuid.New(), 3)
	f.leaves.On("FindByID", ctx, leave.ID).Return(leave, nil)
	f.leaves.On("Update", ctx, leave).Return(nil)

	dto, err := f.svc.Approve(ctx, admin, leave.ID, "Enjoy")
	require.NoError(t, err)
	assert.Equal(t, welfare.LeaveStatusApproved, dto.Status)
	assert.Equal(t, &admin.UserID, dto.ReviewerID)
	assert.Equal(t, "Enjoy", dto.ReviewNote)
	assert.Equal(t, []string{welfare.EventTypeLeaveApproved}, f.pub.types())

	_, err = f.svc.Reject(ctx, admin, leave.ID, "")
	assert.Equal(t, "LEAVE_INVALID_TRANSITION", shared.CodeOf(err))
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture()
	owner := studentActor()

	pending := newTestLeave(t, owner.UserID, 1)
	f.leaves.On("FindByID", ctx, pending.ID).Return(pending, nil)
	f.leaves.On("Update", ctx, pending).Return(nil)

	_, err := f.svc.Cancel(ctx, studentActor(), pending.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	dto, err := f.svc.Cancel(ctx, owner, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, welfare.LeaveStatusCancelled, dto.Status)

	started := newTestLeave(t, owner.UserID, 0)
	require.NoError(t, started.Approve(uuid.New(), ""))
	f.leaves.On("FindByID", ctx, started.ID).Return(started, nil)

	_, err = f.svc.Cancel(ctx, owner, started.ID)
	assert.Equal(t, "LEAVE_ALREADY_STARTED", shared.CodeOf(err))
}

func TestLeaveService_ListScopesStudents(t *testing.T) {
	ctx := context.Background()
	f := newLeaveFixture()
	actor := studentActor()

	f.leaves.On("FindAll", ctx, mock.MatchedBy(func(filter welfare.LeaveFilter) bool {
		return filter.StudentID != nil && *filter.StudentID == actor.UserID
	})).Return([]*welfare.LeaveApplication{}, int64(0), nil)

	page, err := f.svc.List(ctx, actor, ListLeavesInput{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
