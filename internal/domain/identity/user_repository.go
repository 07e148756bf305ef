package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	// Update saves changes using optimistic locking on Version
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter UserFilter) ([]*User, int64, error)
	// FindIDsByRole returns active user IDs with the given role; an empty role matches every role
	FindIDsByRole(ctx context.Context, role shared.Role) ([]uuid.UUID, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role shared.Role) (int64, error)
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	Keyword string
	Role    *shared.Role
	Status  *UserStatus
	Gender  *shared.Gender

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// NewUserFilter creates a UserFilter with default paging
func NewUserFilter() UserFilter {
	return UserFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}
