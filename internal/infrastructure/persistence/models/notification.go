package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for in-app notifications
type NotificationModel struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1"`
	Type      notification.Type `gorm:"type:varchar(20);not null"`
	Title     string            `gorm:"type:varchar(200);not null"`
	Message   string            `gorm:"type:text"`
	Link      string            `gorm:"type:varchar(500)"`
	ReadAt    *time.Time
	CreatedAt time.Time  `gorm:"not null;index:idx_notifications_user_created,priority:2"`
	User      *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      m.Type,
		Title:     m.Title,
		Message:   m.Message,
		Link:      m.Link,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
	}
}

func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	return &NotificationModel{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		ReadAt:    utc(n.ReadAt),
		CreatedAt: n.CreatedAt.UTC(),
	}
}
