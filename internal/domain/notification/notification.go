package notification

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// Type tells the client what a notification is about
type Type string

const (
	TypeBooking   Type = "BOOKING"
	TypePayment   Type = "PAYMENT"
	TypeNotice    Type = "NOTICE"
	TypeComplaint Type = "COMPLAINT"
	TypeLeave     Type = "LEAVE"
	TypeEvent     Type = "EVENT"
	TypeRoommate  Type = "ROOMMATE"
	TypeSystem    Type = "SYSTEM"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeBooking, TypePayment, TypeNotice, TypeComplaint, TypeLeave, TypeEvent, TypeRoommate, TypeSystem:
		return true
	}
	return false
}

// Notification is a message shown to one user
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      Type
	Title     string
	Message   string
	Link      string
	ReadAt    *time.Time
	CreatedAt time.Time
}

// New creates an unread notification
func New(userID uuid.UUID, t Type, title, message, link string) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient is required")
	}
	if t == "" {
		t = TypeSystem
	}
	if !t.IsValid() {
		return nil, shared.NewDomainError("INVALID_NOTIFICATION_TYPE", "Unknown notification type")
	}
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title must be between 1 and 200 characters")
	}
	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      t,
		Title:     title,
		Message:   strings.TrimSpace(message),
		Link:      strings.TrimSpace(link),
		CreatedAt: time.Now(),
	}, nil
}

// MarkRead records the first time the notification was read
func (n *Notification) MarkRead() {
	if n.ReadAt != nil {
		return
	}
	now := time.Now()
	n.ReadAt = &now
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// Repository defines persistence for notifications
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	CreateBatch(ctx context.Context, ns []*Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter Filter) ([]*Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// Filter contains filter options for notification queries
type Filter struct {
	UnreadOnly bool
	Type       *Type
	Page       int
	PageSize   int
}

// Dispatcher pushes a stored notification to an external channel
type Dispatcher interface {
	Dispatch(ctx context.Context, n *Notification) error
}
