package housing

import (
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// AggregateTypeBooking is the aggregate type for bookings
const AggregateTypeBooking = "Booking"

// Booking event types
const (
	EventTypeBookingCreated   = "BookingCreated"
	EventTypeBookingConfirmed = "BookingConfirmed"
	EventTypeBookingCheckedIn = "BookingCheckedIn"
	EventTypeBookingCompleted = "BookingCompleted"
	EventTypeBookingCancelled = "BookingCancelled"
)

// BookingCreatedEvent is published when a student requests a bed
type BookingCreatedEvent struct {
	shared.BaseDomainEvent
	StudentID uuid.UUID `json:"student_id"`
	RoomID    uuid.UUID `json:"room_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func NewBookingCreatedEvent(b *Booking) *BookingCreatedEvent {
	return &BookingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingCreated, AggregateTypeBooking, b.ID),
		StudentID:       b.StudentID,
		RoomID:          b.RoomID,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
	}
}

// BookingConfirmedEvent is published when an administrator confirms a booking
type BookingConfirmedEvent struct {
	shared.BaseDomainEvent
	StudentID uuid.UUID `json:"student_id"`
	RoomID    uuid.UUID `json:"room_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func NewBookingConfirmedEvent(b *Booking) *BookingConfirmedEvent {
	return &BookingConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingConfirmed, AggregateTypeBooking, b.ID),
		StudentID:       b.StudentID,
		RoomID:          b.RoomID,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
	}
}

// BookingStatusEvent covers check-in and completion
type BookingStatusEvent struct {
	shared.BaseDomainEvent
	StudentID uuid.UUID     `json:"student_id"`
	RoomID    uuid.UUID     `json:"room_id"`
	Status    BookingStatus `json:"status"`
}

func NewBookingStatusEvent(eventType string, b *Booking) *BookingStatusEvent {
	return &BookingStatusEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeBooking, b.ID),
		StudentID:       b.StudentID,
		RoomID:          b.RoomID,
		Status:          b.Status,
	}
}

// BookingCancelledEvent is published when a booking is cancelled
type BookingCancelledEvent struct {
	shared.BaseDomainEvent
	StudentID uuid.UUID `json:"student_id"`
	RoomID    uuid.UUID `json:"room_id"`
	Reason    string    `json:"reason"`
	HeldSeat  bool      `json:"held_seat"`
}

func NewBookingCancelledEvent(b *Booking, heldSeat bool) *BookingCancelledEvent {
	return &BookingCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingCancelled, AggregateTypeBooking, b.ID),
		StudentID:       b.StudentID,
		RoomID:          b.RoomID,
		Reason:          b.CancelReason,
		HeldSeat:        heldSeat,
	}
}
