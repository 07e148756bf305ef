package community

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// Audience selects who can see a notice
type Audience string

const (
	AudienceAll     Audience = "ALL"
	AudienceAdmin   Audience = "ADMIN"
	AudienceStudent Audience = "STUDENT"
)

func (a Audience) IsValid() bool {
	return a == AudienceAll || a == AudienceAdmin || a == AudienceStudent
}

// Includes reports whether users with the role are part of the audience
func (a Audience) Includes(role shared.Role) bool {
	return a == AudienceAll || string(a) == string(role)
}

// Roles returns the roles the audience targets
func (a Audience) Roles() []shared.Role {
	switch a {
	case AudienceAdmin:
		return []shared.Role{shared.RoleAdmin}
	case AudienceStudent:
		return []shared.Role{shared.RoleStudent}
	}
	return []shared.Role{shared.RoleAdmin, shared.RoleStudent}
}

// VisibleAudiences returns the audiences a role can read
func VisibleAudiences(role shared.Role) []Audience {
	return []Audience{AudienceAll, Audience(role)}
}

// Priority orders notices and complaints by urgency
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Notice is an announcement published by an admin
type Notice struct {
	shared.BaseAggregateRoot
	Title       string
	Content     string
	Audience    Audience
	Priority    Priority
	Pinned      bool
	AuthorID    uuid.UUID
	PublishedAt time.Time
	ExpiresAt   *time.Time
}

// NewNotice creates and publishes a notice
func NewNotice(authorID uuid.UUID, title, content string, audience Audience, priority Priority, pinned bool, expiresAt *time.Time) (*Notice, error) {
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Author is required")
	}
	if audience == "" {
		audience = AudienceAll
	}
	if priority == "" {
		priority = PriorityNormal
	}
	n := &Notice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AuthorID:          authorID,
		Pinned:            pinned,
		PublishedAt:       time.Now(),
	}
	if err := n.apply(title, content, audience, priority, expiresAt); err != nil {
		return nil, err
	}
	n.RecordEvent(NewNoticePublishedEvent(n))
	return n, nil
}

// NoticeUpdate carries optional changes; nil fields are left untouched
type NoticeUpdate struct {
	Title        *string
	Content      *string
	Audience     *Audience
	Priority     *Priority
	Pinned       *bool
	ExpiresAt    *time.Time
	ClearExpires bool
}

// Update applies a NoticeUpdate
func (n *Notice) Update(u NoticeUpdate) error {
	title, content, audience, priority, expires := n.Title, n.Content, n.Audience, n.Priority, n.ExpiresAt
	if u.Title != nil {
		title = *u.Title
	}
	if u.Content != nil {
		content = *u.Content
	}
	if u.Audience != nil {
		audience = *u.Audience
	}
	if u.Priority != nil {
		priority = *u.Priority
	}
	if u.ExpiresAt != nil {
		expires = u.ExpiresAt
	}
	if u.ClearExpires {
		expires = nil
	}
	if err := n.apply(title, content, audience, priority, expires); err != nil {
		return err
	}
	if u.Pinned != nil {
		n.Pinned = *u.Pinned
	}
	n.Touch()
	return nil
}

// IsExpired reports whether the notice expired at time t
func (n *Notice) IsExpired(t time.Time) bool {
	return n.ExpiresAt != nil && !n.ExpiresAt.After(t)
}

// VisibleTo reports whether a user with the role can read the notice at time t
func (n *Notice) VisibleTo(role shared.Role, t time.Time) bool {
	return n.Audience.Includes(role) && !n.IsExpired(t)
}

func (n *Notice) apply(title, content string, audience Audience, priority Priority, expiresAt *time.Time) error {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if content == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Content cannot be empty")
	}
	if !audience.IsValid() {
		return shared.NewDomainError("INVALID_AUDIENCE", "Audience must be ALL, ADMIN or STUDENT")
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Priority must be LOW, NORMAL, HIGH or URGENT")
	}
	if expiresAt != nil && !expiresAt.After(n.PublishedAt) {
		return shared.NewDomainError("INVALID_EXPIRY", "Expiry must be after the publish time")
	}
	n.Title = title
	n.Content = content
	n.Audience = audience
	n.Priority = priority
	n.ExpiresAt = expiresAt
	return nil
}

// Notice event types
const (
	AggregateTypeNotice      = "Notice"
	EventTypeNoticePublished = "NoticePublished"
)

// NoticePublishedEvent fans a notice out to its audience
type NoticePublishedEvent struct {
	shared.BaseDomainEvent
	Title    string    `json:"title"`
	Audience Audience  `json:"audience"`
	Priority Priority  `json:"priority"`
	AuthorID uuid.UUID `json:"author_id"`
}

func NewNoticePublishedEvent(n *Notice) *NoticePublishedEvent {
	return &NoticePublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeNoticePublished, AggregateTypeNotice, n.ID),
		Title:           n.Title,
		Audience:        n.Audience,
		Priority:        n.Priority,
		AuthorID:        n.AuthorID,
	}
}
