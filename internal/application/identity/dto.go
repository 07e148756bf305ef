package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/auth"
)

// RegisterInput contains the input for student self registration
type RegisterInput struct {
	Email         string
	Password      string
	Name          string
	Phone         string
	StudentNumber string
	Gender        shared.Gender
	IP            string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	TOTPCode string
	IP       string // Client IP for login tracking
}

// AuthResult is returned by register, login and refresh
type AuthResult struct {
	auth.TokenPair
	User UserDTO `json:"user"`
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID       uuid.UUID
	TokenJTI     string
	RemainingTTL time.Duration
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// TwoFactorSetup is returned when a user starts enrolling an authenticator app
type TwoFactorSetup struct {
	Secret string `json:"secret"`
	URL    string `json:"otpauth_url"`
}

// CreateUserInput contains input for creating a user as an admin
type CreateUserInput struct {
	Email         string
	Password      string
	Name          string
	Phone         string
	Role          shared.Role
	Gender        shared.Gender
	StudentNumber string
	GuardianName  string
	GuardianPhone string
}

// UpdateUserInput contains optional profile changes. Role is only honoured for admins.
type UpdateUserInput struct {
	Name          *string
	Email         *string
	Phone         *string
	Gender        *shared.Gender
	StudentNumber *string
	GuardianName  *string
	GuardianPhone *string
	Role          *shared.Role
}

// ListUsersInput contains user list filters
type ListUsersInput struct {
	Search    string
	Role      *shared.Role
	Status    *identity.UserStatus
	Gender    *shared.Gender
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// UserDTO represents user data transfer object
type UserDTO struct {
	ID               uuid.UUID           `json:"id"`
	Email            string              `json:"email"`
	Name             string              `json:"name"`
	Phone            string              `json:"phone,omitempty"`
	Role             shared.Role         `json:"role"`
	Status           identity.UserStatus `json:"status"`
	Gender           shared.Gender       `json:"gender,omitempty"`
	StudentNumber    string              `json:"student_number,omitempty"`
	GuardianName     string              `json:"guardian_name,omitempty"`
	GuardianPhone    string              `json:"guardian_phone,omitempty"`
	TwoFactorEnabled bool                `json:"two_factor_enabled"`
	LastLoginAt      *time.Time          `json:"last_login_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// ToUserDTO converts a domain user
func ToUserDTO(u *identity.User) UserDTO {
	return UserDTO{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Phone:            u.Phone,
		Role:             u.Role,
		Status:           u.Status,
		Gender:           u.Gender,
		StudentNumber:    u.StudentNumber,
		GuardianName:     u.GuardianName,
		GuardianPhone:    u.GuardianPhone,
		TwoFactorEnabled: u.TwoFactorEnabled,
		LastLoginAt:      u.LastLoginAt,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func toUserDTOs(users []*identity.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

const revokeWindow = 30 * 24 * time.Hour
