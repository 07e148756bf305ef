package persistence

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), shared.ErrNotFound)
	assert.ErrorIs(t, translateError(gorm.ErrDuplicatedKey), shared.ErrAlreadyExists)
	assert.ErrorIs(t, translateError(gorm.ErrForeignKeyViolated), ErrReferenceViolation)

	other := errors.New("boom")
	assert.Equal(t, other, translateError(other))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%alice%", likePattern("  Alice "))
	assert.Equal(t, `%50\% off\_now%`, likePattern("50% off_now"))
	assert.Equal(t, `(LOWER(name) LIKE @kw ESCAPE '\' OR LOWER(email) LIKE @kw ESCAPE '\')`, likeClause("name", "email"))
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "number ASC", orderBy("number", "asc", RoomSortFields, "created_at"))
	assert.Equal(t, "created_at DESC", orderBy("number; DROP TABLE rooms", "asc;", RoomSortFields, "created_at"))
}

func TestSaveVersioned_SQL(t *testing.T) {
	db, mock, cleanup := newPostgresMock(t)
	defer cleanup()

	model := &models.NoticeModel{Title: "t", Content: "c"}
	model.ID = uuid.New()
	model.Version = 3

	t.Run("matching version bumps it", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "notices" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, saveVersioned(db, model))
		assert.Equal(t, 4, model.Version)
	})

	t.Run("stale version reports a conflict", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "notices" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := saveVersioned(db, model)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, 4, model.Version, "version is restored on conflict")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
