package identity

import (
	"time"

	"github.com/hostelhub/backend/internal/domain/shared"
)

// AggregateTypeUser is the aggregate type for users
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserCreated         = "UserCreated"
	EventTypeUserPasswordChanged = "UserPasswordChanged"
	EventTypeUserStatusChanged   = "UserStatusChanged"
)

// UserCreatedEvent is published when an account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  shared.Role `json:"role"`
}

func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID),
		Email:           u.Email,
		Name:            u.Name,
		Role:            u.Role,
	}
}

// UserPasswordChangedEvent is published when a password changes
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	ChangedAt time.Time `json:"changed_at"`
}

func NewUserPasswordChangedEvent(u *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, AggregateTypeUser, u.ID),
		ChangedAt:       time.Now(),
	}
}

// UserStatusChangedEvent is published on activation, deactivation and lockout
type UserStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus UserStatus `json:"old_status"`
	NewStatus UserStatus `json:"new_status"`
}

func NewUserStatusChangedEvent(u *User, old UserStatus) *UserStatusChangedEvent {
	return &UserStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserStatusChanged, AggregateTypeUser, u.ID),
		OldStatus:       old,
		NewStatus:       u.Status,
	}
}
