package community

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// EventStatus is the state of a hostel event
type EventStatus string

const (
	EventStatusScheduled EventStatus = "SCHEDULED"
	EventStatusCancelled EventStatus = "CANCELLED"
	EventStatusCompleted EventStatus = "COMPLETED"
)

func (s EventStatus) IsValid() bool {
	return s == EventStatusScheduled || s == EventStatusCancelled || s == EventStatusCompleted
}

// Event is a hostel activity students can register for.
// A Capacity of zero means unlimited places.
type Event struct {
	shared.BaseAggregateRoot
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
	Capacity    int
	Status      EventStatus
	CreatedBy   uuid.UUID
}

// Registration records a user signed up for an event
type Registration struct {
	EventID      uuid.UUID
	UserID       uuid.UUID
	RegisteredAt time.Time
}

// NewEvent schedules an event
func NewEvent(createdBy uuid.UUID, title, description, location string, startsAt, endsAt time.Time, capacity int) (*Event, error) {
	e := &Event{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CreatedBy:         createdBy,
		Status:            EventStatusScheduled,
	}
	if err := e.apply(title, description, location, startsAt, endsAt, capacity); err != nil {
		return nil, err
	}
	if !startsAt.After(time.Now()) {
		return nil, shared.NewDomainError("INVALID_EVENT_TIME", "Event must start in the future")
	}
	e.RecordEvent(NewEventChangedEvent(EventTypeEventScheduled, e))
	return e, nil
}

// EventUpdate carries optional changes; nil fields are left untouched
type EventUpdate struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Capacity    *int
}

// Update applies changes to a scheduled event. Capacity cannot drop below registrations.
func (e *Event) Update(u EventUpdate, registered int) error {
	if e.Status != EventStatusScheduled {
		return shared.NewDomainError("EVENT_NOT_SCHEDULED", "Only scheduled events can be changed")
	}
	title, desc, loc, start, end, capacity := e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.Capacity
	if u.Title != nil {
		title = *u.Title
	}
	if u.Description != nil {
		desc = *u.Description
	}
	if u.Location != nil {
		loc = *u.Location
	}
	if u.StartsAt != nil {
		start = *u.StartsAt
	}
	if u.EndsAt != nil {
		end = *u.EndsAt
	}
	if u.Capacity != nil {
		capacity = *u.Capacity
	}
	if capacity > 0 && capacity < registered {
		return shared.NewDomainError("EVENT_CAPACITY_BELOW_REGISTRATIONS", "Capacity cannot be lower than the number of registrations")
	}
	if err := e.apply(title, desc, loc, start, end, capacity); err != nil {
		return err
	}
	e.Touch()
	return nil
}

// Cancel calls off a scheduled event
func (e *Event) Cancel() error {
	if e.Status != EventStatusScheduled {
		return shared.NewDomainError("EVENT_NOT_SCHEDULED", "Only scheduled events can be cancelled")
	}
	e.Status = EventStatusCancelled
	e.Touch()
	e.RecordEvent(NewEventChangedEvent(EventTypeEventCancelled, e))
	return nil
}

// Complete marks a scheduled event that has ended
func (e *Event) Complete() error {
	if e.Status != EventStatusScheduled {
		return shared.NewDomainError("EVENT_NOT_SCHEDULED", "Only scheduled events can be completed")
	}
	e.Status = EventStatusCompleted
	e.Touch()
	return nil
}

// CanRegister checks whether one more registration is allowed given the current count at time now
func (e *Event) CanRegister(registered int, now time.Time) error {
	if e.Status != EventStatusScheduled {
		return shared.NewDomainError("EVENT_NOT_SCHEDULED", "Registration is closed for this event")
	}
	if !e.StartsAt.After(now) {
		return shared.NewDomainError("EVENT_STARTED", "Event has already started")
	}
	if e.Capacity > 0 && registered >= e.Capacity {
		return shared.NewDomainError("EVENT_FULL", "Event has no free places")
	}
	return nil
}

// HasEnded reports whether the event ended before now
func (e *Event) HasEnded(now time.Time) bool {
	return e.EndsAt.Before(now)
}

// IsUnlimited reports whether the event takes any number of registrations
func (e *Event) IsUnlimited() bool {
	return e.Capacity == 0
}

func (e *Event) apply(title, description, location string, startsAt, endsAt time.Time, capacity int) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if startsAt.IsZero() || endsAt.IsZero() {
		return shared.NewDomainError("INVALID_EVENT_TIME", "Start and end time are required")
	}
	if !endsAt.After(startsAt) {
		return shared.NewDomainError("INVALID_EVENT_TIME", "Event must end after it starts")
	}
	if capacity < 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Capacity cannot be negative")
	}
	e.Title = title
	e.Description = strings.TrimSpace(description)
	e.Location = strings.TrimSpace(location)
	e.StartsAt = startsAt
	e.EndsAt = endsAt
	e.Capacity = capacity
	return nil
}

// Event event types
const (
	AggregateTypeEvent      = "Event"
	EventTypeEventScheduled = "EventScheduled"
	EventTypeEventCancelled = "EventCancelled"
)

// EventChangedEvent is published when an event is scheduled or cancelled
type EventChangedEvent struct {
	shared.BaseDomainEvent
	Title    string      `json:"title"`
	StartsAt time.Time   `json:"starts_at"`
	Status   EventStatus `json:"status"`
}

func NewEventChangedEvent(eventType string, e *Event) *EventChangedEvent {
	return &EventChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeEvent, e.ID),
		Title:           e.Title,
		StartsAt:        e.StartsAt,
		Status:          e.Status,
	}
}
