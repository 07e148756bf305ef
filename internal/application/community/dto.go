package community

import (
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/community"
)

// CreateNoticeInput is the input for publishing a notice
type CreateNoticeInput struct {
	Title     string
	Content   string
	Audience  community.Audience
	Priority  community.Priority
	Pinned    bool
	ExpiresAt *time.Time
}

// UpdateNoticeInput carries optional notice changes
type UpdateNoticeInput struct {
	Title        *string
	Content      *string
	Audience     *community.Audience
	Priority     *community.Priority
	Pinned       *bool
	ExpiresAt    *time.Time
	ClearExpires bool
}

// ListNoticesInput filters the notice list
type ListNoticesInput struct {
	Priority       *community.Priority
	Audience       *community.Audience
	Search         string
	IncludeExpired bool
	Page           int
	PageSize       int
}

// NoticeDTO is the API view of a notice
type NoticeDTO struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Content     string             `json:"content"`
	Audience    community.Audience `json:"audience"`
	Priority    community.Priority `json:"priority"`
	Pinned      bool               `json:"pinned"`
	AuthorID    uuid.UUID          `json:"author_id"`
	PublishedAt time.Time          `json:"published_at"`
	ExpiresAt   *time.Time         `json:"expires_at,omitempty"`
	Expired     bool               `json:"expired"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ToNoticeDTO converts a notice to its DTO as seen at time now
func ToNoticeDTO(n *community.Notice, now time.Time) NoticeDTO {
	return NoticeDTO{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		Audience:    n.Audience,
		Priority:    n.Priority,
		Pinned:      n.Pinned,
		AuthorID:    n.AuthorID,
		PublishedAt: n.PublishedAt,
		ExpiresAt:   n.ExpiresAt,
		Expired:     n.IsExpired(now),
		UpdatedAt:   n.UpdatedAt,
	}
}

// CreateEventInput is the input for scheduling an event
type CreateEventInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
	Capacity    int
}

// UpdateEventInput carries optional event changes
type UpdateEventInput struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Capacity    *int
}

// ListEventsInput filters the event list
type ListEventsInput struct {
	Status       *community.EventStatus
	UpcomingOnly bool
	Search       string
	Page         int
	PageSize     int
}

// EventDTO is the API view of an event
type EventDTO struct {
	ID                uuid.UUID             `json:"id"`
	Title             string                `json:"title"`
	Description       string                `json:"description,omitempty"`
	Location          string                `json:"location,omitempty"`
	StartsAt          time.Time             `json:"starts_at"`
	EndsAt            time.Time             `json:"ends_at"`
	Capacity          int                   `json:"capacity"`
	Status            community.EventStatus `json:"status"`
	CreatedBy         uuid.UUID             `json:"created_by"`
	RegistrationCount int64                 `json:"registration_count"`
	SpotsLeft         *int64                `json:"spots_left,omitempty"`
	IsRegistered      bool                  `json:"is_registered"`
	CreatedAt         time.Time             `json:"created_at"`
}

// ToEventDTO converts an event to its DTO
func ToEventDTO(e *community.Event, registered int64, isRegistered bool) EventDTO {
	dto := EventDTO{
		ID:                e.ID,
		Title:             e.Title,
		Description:       e.Description,
		Location:          e.Location,
		StartsAt:          e.StartsAt,
		EndsAt:            e.EndsAt,
		Capacity:          e.Capacity,
		Status:            e.Status,
		CreatedBy:         e.CreatedBy,
		RegistrationCount: registered,
		IsRegistered:      isRegistered,
		CreatedAt:         e.CreatedAt,
	}
	if !e.IsUnlimited() {
		left := int64(e.Capacity) - registered
		if left < 0 {
			left = 0
		}
		dto.SpotsLeft = &left
	}
	return dto
}

// AttendeeDTO is one registration of an event
type AttendeeDTO struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}
