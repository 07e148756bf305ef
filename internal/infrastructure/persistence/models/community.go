package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/community"
)

// NoticeModel is the persistence model for notices
type NoticeModel struct {
	AggregateModel
	Title       string             `gorm:"type:varchar(200);not null"`
	Content     string             `gorm:"type:text;not null"`
	Audience    community.Audience `gorm:"type:varchar(20);not null;index"`
	Priority    community.Priority `gorm:"type:varchar(20);not null"`
	Pinned      bool               `gorm:"not null;default:false"`
	AuthorID    uuid.UUID          `gorm:"type:uuid;not null"`
	PublishedAt time.Time          `gorm:"not null;index"`
	ExpiresAt   *time.Time         `gorm:"index"`
}

func (NoticeModel) TableName() string {
	return "notices"
}

func (m *NoticeModel) ToDomain() *community.Notice {
	return &community.Notice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Content:           m.Content,
		Audience:          m.Audience,
		Priority:          m.Priority,
		Pinned:            m.Pinned,
		AuthorID:          m.AuthorID,
		PublishedAt:       m.PublishedAt,
		ExpiresAt:         m.ExpiresAt,
	}
}

func NoticeModelFromDomain(n *community.Notice) *NoticeModel {
	m := &NoticeModel{
		Title:       n.Title,
		Content:     n.Content,
		Audience:    n.Audience,
		Priority:    n.Priority,
		Pinned:      n.Pinned,
		AuthorID:    n.AuthorID,
		PublishedAt: n.PublishedAt.UTC(),
		ExpiresAt:   utc(n.ExpiresAt),
	}
	m.FromDomainAggregateRoot(n.BaseAggregateRoot)
	return m
}

// EventModel is the persistence model for hostel events
type EventModel struct {
	AggregateModel
	Title       string                `gorm:"type:varchar(200);not null"`
	Description string                `gorm:"type:text"`
	Location    string                `gorm:"type:varchar(200)"`
	StartsAt    time.Time             `gorm:"not null;index"`
	EndsAt      time.Time             `gorm:"not null"`
	Capacity    int                   `gorm:"not null;default:0"`
	Status      community.EventStatus `gorm:"type:varchar(20);not null;index"`
	CreatedBy   uuid.UUID             `gorm:"type:uuid;not null"`
}

func (EventModel) TableName() string {
	return "events"
}

func (m *EventModel) ToDomain() *community.Event {
	return &community.Event{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Description:       m.Description,
		Location:          m.Location,
		StartsAt:          m.StartsAt,
		EndsAt:            m.EndsAt,
		Capacity:          m.Capacity,
		Status:            m.Status,
		CreatedBy:         m.CreatedBy,
	}
}

func EventModelFromDomain(e *community.Event) *EventModel {
	m := &EventModel{
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt.UTC(),
		EndsAt:      e.EndsAt.UTC(),
		Capacity:    e.Capacity,
		Status:      e.Status,
		CreatedBy:   e.CreatedBy,
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	return m
}

// EventRegistrationModel links a user to an event they signed up for
type EventRegistrationModel struct {
	EventID      uuid.UUID   `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID   `gorm:"type:uuid;primaryKey;index"`
	RegisteredAt time.Time   `gorm:"not null"`
	Event        *EventModel `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	User         *UserModel  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (EventRegistrationModel) TableName() string {
	return "event_registrations"
}

func (m *EventRegistrationModel) ToDomain() community.Registration {
	return community.Registration{
		EventID:      m.EventID,
		UserID:       m.UserID,
		RegisteredAt: m.RegisteredAt,
	}
}
