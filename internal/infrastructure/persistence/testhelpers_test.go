package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared/valueobject"
	"github.com/hostelhub/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a migrated in-memory sqlite database private to the test
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), GormConfig(logger.Default.LogMode(logger.Silent)))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, email string) *identity.User {
	t.Helper()
	u, err := identity.NewStudent(email, "Student "+email, "password123")
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), u))
	return u
}

func seedRoom(t *testing.T, db *gorm.DB, number string, capacity int) *housing.Room {
	t.Helper()
	r, err := housing.NewRoom(number, "A", 1, housing.RoomTypeDouble, capacity, decimal.NewFromInt(500))
	require.NoError(t, err)
	require.NoError(t, NewGormRoomRepository(db).Create(context.Background(), r))
	return r
}

func seedBooking(t *testing.T, db *gorm.DB, studentID, roomID uuid.UUID, status housing.BookingStatus) *housing.Booking {
	t.Helper()
	start := valueobject.Today().AddDate(0, 0, 1)
	b, err := housing.NewBooking(studentID, roomID, start, start.AddDate(0, 6, 0), "")
	require.NoError(t, err)
	b.Status = status
	require.NoError(t, NewGormBookingRepository(db).Create(context.Background(), b))
	return b
}

func day(offset int) time.Time {
	return valueobject.Today().AddDate(0, 0, offset)
}
