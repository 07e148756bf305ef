package community

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NoticeRepository defines persistence for notices
type NoticeRepository interface {
	Create(ctx context.Context, notice *Notice) error
	Update(ctx context.Context, notice *Notice) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Notice, error)
	// FindAll orders pinned notices first, then newest
	FindAll(ctx context.Context, filter NoticeFilter) ([]*Notice, int64, error)
}

// NoticeFilter contains filter options for notice queries.
// Audiences limits results to notices targeted at any of the listed audiences.
type NoticeFilter struct {
	Audiences      []Audience
	Priority       *Priority
	Keyword        string
	IncludeExpired bool
	Now            time.Time

	Page     int
	PageSize int
}

// EventRepository defines persistence for events and their registrations
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Event, error)
	FindAll(ctx context.Context, filter EventFilter) ([]*Event, int64, error)
	FindScheduledEndedBefore(ctx context.Context, t time.Time) ([]*Event, error)

	AddRegistration(ctx context.Context, reg *Registration) error
	RemoveRegistration(ctx context.Context, eventID, userID uuid.UUID) error
	IsRegistered(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	CountRegistrations(ctx context.Context, eventID uuid.UUID) (int64, error)
	CountRegistrationsByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	ListRegistrations(ctx context.Context, eventID uuid.UUID) ([]Registration, error)
	RegisteredEventIDs(ctx context.Context, userID uuid.UUID, eventIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

// EventFilter contains filter options for event queries
type EventFilter struct {
	Status       *EventStatus
	UpcomingOnly bool
	Now          time.Time
	Keyword      string

	Page     int
	PageSize int
}
