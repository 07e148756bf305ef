package persistence

import (
	"context"
	"testing"

	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/report"
	"github.com/hostelhub/backend/internal/domain/welfare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAnalyticsRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormAnalyticsRepository(db)
	rooms := NewGormRoomRepository(db)
	ctx := context.Background()

	student := seedStudent(t, db, "dash@example.com")
	seedStudent(t, db, "dash2@example.com")

	single := seedRoom(t, db, "L-1", 1)
	require.NoError(t, single.ReserveSeat())
	require.NoError(t, rooms.Update(ctx, single))
	seedRoom(t, db, "L-2", 3)

	booking := seedBooking(t, db, student.ID, single.ID, housing.BookingStatusActive)

	students, err := repo.CountStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), students)

	overview, err := repo.OccupancyOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), overview.TotalRooms)
	assert.Equal(t, int64(1), overview.OccupiedRooms)
	assert.Equal(t, int64(4), overview.TotalBeds)
	assert.Equal(t, int64(1), overview.OccupiedBeds)
	assert.InDelta(t, 0.25, overview.OccupancyRate, 1e-9)

	groups, err := repo.OccupancyBy(ctx, report.ByFloor)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "1", groups[0].Key)
	assert.Equal(t, int64(4), groups[0].Capacity)

	_, err = repo.OccupancyBy(ctx, report.OccupancyDimension("colour"))
	assert.Error(t, err)

	byStatus, err := repo.BookingsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byStatus[string(housing.BookingStatusActive)])

	current, err := repo.CurrentBooking(ctx, student.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, booking.ID, current.BookingID)
	assert.Equal(t, "L-1", current.RoomNumber)

	leaves, err := repo.CountLeavesByStudent(ctx, student.ID, string(welfare.LeaveStatusPending))
	require.NoError(t, err)
	assert.Zero(t, leaves)
}

func TestGormReportRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormReportRepository(db)
	ctx := context.Background()

	student := seedStudent(t, db, "reported@example.com")
	room := seedRoom(t, db, "M-1", 2)
	seedBooking(t, db, student.ID, room.ID, housing.BookingStatusConfirmed)
	seedPayment(t, db, student.ID, nil, "120", "2026-06", day(3))

	complaint, err := welfare.NewComplaint(student.ID, &room.ID, welfare.CategoryFood, "Cold food", "Dinner was cold", welfare.ComplaintPriorityLow)
	require.NoError(t, err)
	require.NoError(t, NewGormComplaintRepository(db).Create(ctx, complaint))

	occupancy, err := repo.OccupancyRows(ctx)
	require.NoError(t, err)
	require.Len(t, occupancy, 1)
	assert.Equal(t, "M-1", occupancy[0].RoomNumber)

	payments, err := repo.PaymentRows(ctx, report.Filter{Status: string(finance.PaymentStatusPending)})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, student.Email, payments[0].StudentEmail)
	assert.Equal(t, "120.00", payments[0].Amount.StringFixed(2))

	rows, err := repo.StudentRows(ctx, report.Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "M-1", rows[0].RoomNumber)
	assert.Equal(t, string(housing.BookingStatusConfirmed), rows[0].BookingStatus)
	assert.Equal(t, "120.00", rows[0].Outstanding.StringFixed(2))

	complaints, err := repo.ComplaintRows(ctx, report.Filter{})
	require.NoError(t, err)
	require.Len(t, complaints, 1)
	assert.Equal(t, "M-1", complaints[0].RoomNumber)
	assert.Equal(t, "Cold food", complaints[0].Title)
}
