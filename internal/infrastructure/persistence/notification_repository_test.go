package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/bulk"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormNotificationRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()

	user := seedStudent(t, db, "inbox@example.com")
	other := seedStudent(t, db, "someone@example.com")

	var batch []*notification.Notification
	for _, title := range []string{"Rent due", "Notice posted", "Booking confirmed"} {
		n, err := notification.New(user.ID, notification.TypeSystem, title, "", "")
		require.NoError(t, err)
		batch = append(batch, n)
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))

	unread, err := repo.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)

	require.NoError(t, repo.MarkRead(ctx, user.ID, batch[0].ID))
	require.NoError(t, repo.MarkRead(ctx, user.ID, batch[0].ID), "marking twice is a no-op")
	assert.ErrorIs(t, repo.MarkRead(ctx, other.ID, batch[1].ID), shared.ErrNotFound)

	list, total, err := repo.FindByUser(ctx, user.ID, notification.Filter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	marked, err := repo.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	found, err := repo.FindByID(ctx, batch[2].ID)
	require.NoError(t, err)
	assert.True(t, found.IsRead())

	assert.ErrorIs(t, repo.Delete(ctx, other.ID, batch[2].ID), shared.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, user.ID, batch[2].ID))

	_, total, err = repo.FindByUser(ctx, user.ID, notification.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestGormBulkOperationRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormBulkOperationRepository(db)
	ctx := context.Background()
	admin := uuid.New()

	op, err := bulk.StartOperation(bulk.ActionImportStudents, "students.csv", admin)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, op))

	result := bulk.NewResult(2)
	result.Success()
	result.FailRow(3, errors.New("invalid email"))
	require.NoError(t, op.Finish(result))
	require.NoError(t, repo.Save(ctx, op))

	found, err := repo.FindByID(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, bulk.OperationStatusPartial, found.Status)
	assert.Equal(t, 1, found.Failed)
	require.Len(t, found.Errors, 1)
	assert.Equal(t, 3, found.Errors[0].Row)

	action := bulk.ActionImportStudents
	ops, total, err := repo.FindAll(ctx, bulk.OperationFilter{Action: &action, PerformedBy: &admin})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, op.ID, ops[0].ID)
}
