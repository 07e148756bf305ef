package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// ListInput filters a user's notifications
type ListInput struct {
	UnreadOnly bool
	Type       *notification.Type
	Page       int
	PageSize   int
}

// SendInput is an administrator broadcast. Exactly one of UserID, Role or All selects recipients.
type SendInput struct {
	UserID  *uuid.UUID
	Role    *shared.Role
	All     bool
	Type    notification.Type
	Title   string
	Message string
	Link    string
}

// NotificationDTO is the API view of a notification
type NotificationDTO struct {
	ID        uuid.UUID         `json:"id"`
	Type      notification.Type `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Link      string            `json:"link,omitempty"`
	Read      bool              `json:"read"`
	ReadAt    *time.Time        `json:"read_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// ToNotificationDTO converts a notification to its DTO
func ToNotificationDTO(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.IsRead(),
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// SendResult reports how many users were notified
type SendResult struct {
	Recipients int `json:"recipients"`
}
