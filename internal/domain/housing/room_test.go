package housing

import (
	"testing"

	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom(t *testing.T, capacity int) *Room {
	t.Helper()
	room, err := NewRoom("a-101", "a", 1, RoomTypeDouble, capacity, decimal.NewFromInt(450))
	require.NoError(t, err)
	return room
}

func TestNewRoom(t *testing.T) {
	t.Run("creates available room", func(t *testing.T) {
		room := newTestRoom(t, 2)
		assert.Equal(t, "A-101", room.Number)
		assert.Equal(t, "A", room.Block)
		assert.Equal(t, RoomStatusAvailable, room.Status)
		assert.Equal(t, 0, room.Occupancy)
		assert.Equal(t, 2, room.AvailableBeds())
		require.Len(t, room.PendingEvents(), 1)
		assert.Equal(t, EventTypeRoomCreated, room.PendingEvents()[0].EventType())
	})

	t.Run("defaults capacity from type", func(t *testing.T) {
		room, err := NewRoom("B-1", "B", 0, RoomTypeTriple, 0, decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, 3, room.Capacity)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewRoom("", "A", 1, RoomTypeSingle, 1, decimal.Zero)
		assert.Equal(t, "INVALID_ROOM_NUMBER", shared.CodeOf(err))

		_, err = NewRoom("A-1", "A", 1, RoomType("SUITE"), 1, decimal.Zero)
		assert.Equal(t, "INVALID_ROOM_TYPE", shared.CodeOf(err))

		_, err = NewRoom("A-1", "A", 1, RoomTypeSingle, 21, decimal.Zero)
		assert.Equal(t, "INVALID_CAPACITY", shared.CodeOf(err))

		_, err = NewRoom("A-1", "A", 1, RoomTypeSingle, 1, decimal.NewFromInt(-1))
		assert.Equal(t, "INVALID_RENT", shared.CodeOf(err))
	})
}

func TestRoom_Occupancy(t *testing.T) {
	t.Run("becomes occupied when occupancy reaches capacity", func(t *testing.T) {
		room := newTestRoom(t, 2)

		require.NoError(t, room.ReserveSeat())
		assert.Equal(t, RoomStatusAvailable, room.Status)
		assert.InDelta(t, 0.5, room.OccupancyRate(), 0.0001)

		require.NoError(t, room.ReserveSeat())
		assert.Equal(t, RoomStatusOccupied, room.Status)
		assert.Equal(t, 0, room.AvailableBeds())

		err := room.ReserveSeat()
		assert.Equal(t, "ROOM_FULL", shared.CodeOf(err))
		assert.Equal(t, 2, room.Occupancy)
	})

	t.Run("releasing a seat makes the room available again", func(t *testing.T) {
		room := newTestRoom(t, 1)
		require.NoError(t, room.ReserveSeat())
		assert.Equal(t, RoomStatusOccupied, room.Status)

		require.NoError(t, room.ReleaseSeat())
		assert.Equal(t, RoomStatusAvailable, room.Status)
		assert.Equal(t, "ROOM_OCCUPANCY_UNDERFLOW", shared.CodeOf(room.ReleaseSeat()))
	})

	t.Run("capacity cannot drop below occupancy", func(t *testing.T) {
		room := newTestRoom(t, 3)
		require.NoError(t, room.ReserveSeat())
		require.NoError(t, room.ReserveSeat())

		one := 1
		assert.Equal(t, "ROOM_CAPACITY_BELOW_OCCUPANCY", shared.CodeOf(room.Update(RoomUpdate{Capacity: &one})))

		two := 2
		require.NoError(t, room.Update(RoomUpdate{Capacity: &two}))
		assert.Equal(t, RoomStatusOccupied, room.Status)
	})
}

func TestRoom_Maintenance(t *testing.T) {
	t.Run("occupied room cannot enter maintenance", func(t *testing.T) {
		room := newTestRoom(t, 2)
		require.NoError(t, room.ReserveSeat())
		assert.Equal(t, "ROOM_OCCUPIED", shared.CodeOf(room.StartMaintenance()))
	})

	t.Run("room under maintenance accepts no bookings", func(t *testing.T) {
		room := newTestRoom(t, 2)
		require.NoError(t, room.StartMaintenance())
		assert.Equal(t, RoomStatusMaintenance, room.Status)
		assert.Equal(t, 0, room.AvailableBeds())
		assert.Equal(t, "ROOM_UNAVAILABLE", shared.CodeOf(room.AcceptsBookings()))
		assert.Equal(t, "ROOM_UNAVAILABLE", shared.CodeOf(room.ReserveSeat()))

		room.EndMaintenance()
		assert.Equal(t, RoomStatusAvailable, room.Status)
		assert.NoError(t, room.AcceptsBookings())
	})
}

func TestRoom_UpdateAmenities(t *testing.T) {
	room := newTestRoom(t, 2)
	require.NoError(t, room.Update(RoomUpdate{Amenities: []string{" WiFi", "wifi", "", "Desk"}}))
	assert.Equal(t, []string{"wifi", "desk"}, room.Amenities)

	other := shared.GenderOther
	assert.Equal(t, "INVALID_GENDER", shared.CodeOf(room.Update(RoomUpdate{Gender: &other})))
}
