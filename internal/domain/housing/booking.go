package housing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/shared/valueobject"
)

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// OpenBookingStatuses are the states that block a student from booking again
var OpenBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusActive}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusActive, BookingStatusCancelled},
	BookingStatusActive:    {BookingStatusCompleted, BookingStatusCancelled},
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusActive, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving to next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsOpen reports whether the status blocks further bookings by the same student
func (s BookingStatus) IsOpen() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed || s == BookingStatusActive
}

// HoldsSeat reports whether the status counts towards room occupancy
func (s BookingStatus) HoldsSeat() bool {
	return s == BookingStatusConfirmed || s == BookingStatusActive
}

// IsTerminal reports whether no further transition is possible
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// Booking is a student's reservation of a bed in a room for a date range
type Booking struct {
	shared.BaseAggregateRoot
	StudentID    uuid.UUID
	RoomID       uuid.UUID
	StartDate    time.Time
	EndDate      time.Time
	Status       BookingStatus
	Notes        string
	CancelReason string
	CancelledBy  *uuid.UUID
	ConfirmedAt  *time.Time
	CheckedInAt  *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
}

// NewBooking creates a PENDING booking. The start date may not lie in the past.
func NewBooking(studentID, roomID uuid.UUID, start, end time.Time, notes string) (*Booking, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student is required")
	}
	if roomID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ROOM", "Room is required")
	}
	period, err := valueobject.NewDateRange(start, end)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_BOOKING_DATES", err.Error())
	}
	if period.End().Equal(period.Start()) {
		return nil, shared.NewDomainError("INVALID_BOOKING_DATES", "End date must be after start date")
	}
	if period.StartsBefore(valueobject.Today()) {
		return nil, shared.NewDomainError("INVALID_BOOKING_DATES", "Start date cannot be in the past")
	}

	b := &Booking{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StudentID:         studentID,
		RoomID:            roomID,
		StartDate:         period.Start(),
		EndDate:           period.End(),
		Status:            BookingStatusPending,
		Notes:             strings.TrimSpace(notes),
	}
	b.RecordEvent(NewBookingCreatedEvent(b))
	return b, nil
}

// Period returns the booked date range
func (b *Booking) Period() valueobject.DateRange {
	r, _ := valueobject.NewDateRange(b.StartDate, b.EndDate)
	return r
}

// Confirm moves PENDING to CONFIRMED. The caller reserves the seat in the same transaction.
func (b *Booking) Confirm() error {
	if err := b.transition(BookingStatusConfirmed); err != nil {
		return err
	}
	now := time.Now()
	b.ConfirmedAt = &now
	b.RecordEvent(NewBookingConfirmedEvent(b))
	return nil
}

// CheckIn moves CONFIRMED to ACTIVE
func (b *Booking) CheckIn() error {
	if err := b.transition(BookingStatusActive); err != nil {
		return err
	}
	now := time.Now()
	b.CheckedInAt = &now
	b.RecordEvent(NewBookingStatusEvent(EventTypeBookingCheckedIn, b))
	return nil
}

// Complete moves ACTIVE to COMPLETED. The caller releases the seat in the same transaction.
func (b *Booking) Complete() error {
	if err := b.transition(BookingStatusCompleted); err != nil {
		return err
	}
	now := time.Now()
	b.CompletedAt = &now
	b.RecordEvent(NewBookingStatusEvent(EventTypeBookingCompleted, b))
	return nil
}

// Cancel cancels a non-terminal booking and reports whether it held a seat that must be released
func (b *Booking) Cancel(by uuid.UUID, reason string) (bool, error) {
	heldSeat := b.Status.HoldsSeat()
	if err := b.transition(BookingStatusCancelled); err != nil {
		return false, err
	}
	now := time.Now()
	b.CancelledAt = &now
	b.CancelReason = strings.TrimSpace(reason)
	if by != uuid.Nil {
		b.CancelledBy = &by
	}
	b.RecordEvent(NewBookingCancelledEvent(b, heldSeat))
	return heldSeat, nil
}

// CanBeCancelledBy reports whether the actor may cancel the booking.
// Students may cancel their own booking until they have checked in.
func (b *Booking) CanBeCancelledBy(actor shared.Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.UserID == b.StudentID &&
		(b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed)
}

// IsOpen reports whether the booking still blocks the student from booking again
func (b *Booking) IsOpen() bool {
	return b.Status.IsOpen()
}

// HoldsSeat reports whether the booking is counted in room occupancy
func (b *Booking) HoldsSeat() bool {
	return b.Status.HoldsSeat()
}

func (b *Booking) transition(next BookingStatus) error {
	if !b.Status.CanTransitionTo(next) {
		return shared.NewDomainError("BOOKING_INVALID_TRANSITION",
			"Cannot change booking from "+string(b.Status)+" to "+string(next))
	}
	b.Status = next
	b.Touch()
	return nil
}
