package housing

import (
	"github.com/hostelhub/backend/internal/domain/shared"
)

// AggregateTypeRoom is the aggregate type for rooms
const AggregateTypeRoom = "Room"

// Room event types
const (
	EventTypeRoomCreated       = "RoomCreated"
	EventTypeRoomUpdated       = "RoomUpdated"
	EventTypeRoomStatusChanged = "RoomStatusChanged"
)

// RoomChangedEvent is published when room inventory changes
type RoomChangedEvent struct {
	shared.BaseDomainEvent
	Number    string     `json:"number"`
	Status    RoomStatus `json:"status"`
	Capacity  int        `json:"capacity"`
	Occupancy int        `json:"occupancy"`
}

func NewRoomChangedEvent(eventType string, r *Room) *RoomChangedEvent {
	return &RoomChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeRoom, r.ID),
		Number:          r.Number,
		Status:          r.Status,
		Capacity:        r.Capacity,
		Occupancy:       r.Occupancy,
	}
}
