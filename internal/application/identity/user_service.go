package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var errEmailExists = shared.NewDomainError("USER_EMAIL_EXISTS", "A user with this email already exists")

// UserService handles user management operations
type UserService struct {
	userRepo    identity.UserRepository
	bookingRepo housing.BookingRepository
	blacklist   auth.TokenBlacklist
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	bookingRepo housing.BookingRepository,
	blacklist auth.TokenBlacklist,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		blacklist:   blacklist,
		publisher:   publisher,
		logger:      logger,
	}
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, input ListUsersInput) (*shared.Paginated[UserDTO], error) {
	filter := identity.NewUserFilter()
	filter.Keyword = input.Search
	filter.Role = input.Role
	filter.Status = input.Status
	filter.Gender = input.Gender
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.SortBy != "" {
		filter.SortBy = input.SortBy
	}
	if input.SortOrder != "" {
		filter.SortOrder = input.SortOrder
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(toUserDTOs(users), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Create creates an account with any role
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, identity.NormalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errEmailExists
	}

	role := input.Role
	if role == "" {
		role = shared.RoleStudent
	}
	user, err := identity.NewUser(input.Email, input.Name, input.Password, role)
	if err != nil {
		return nil, err
	}
	gender := input.Gender
	if err := user.UpdateProfile(identity.ProfileUpdate{
		Phone:         &input.Phone,
		Gender:        &gender,
		StudentNumber: &input.StudentNumber,
		GuardianName:  &input.GuardianName,
		GuardianPhone: &input.GuardianPhone,
	}); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, errEmailExists
		}
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, user)

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))
	dto := ToUserDTO(user)
	return &dto, nil
}

// Get returns a user. Students may only read themselves.
func (s *UserService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*UserDTO, error) {
	if !actor.CanAccess(id) {
		return nil, shared.ErrForbidden
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToUserDTO(user)
	return &dto, nil
}

// Update changes a profile. Only admins may change roles, and never their own.
func (s *UserService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	if !actor.CanAccess(id) {
		return nil, shared.ErrForbidden
	}
	if input.Role != nil {
		if !actor.IsAdmin() {
			return nil, shared.NewDomainError("FORBIDDEN", "You cannot change your own role")
		}
		if actor.UserID == id {
			return nil, shared.NewDomainError("CANNOT_CHANGE_OWN_ROLE", "Administrators cannot change their own role")
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Email != nil && identity.NormalizeEmail(*input.Email) != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, identity.NormalizeEmail(*input.Email))
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errEmailExists
		}
	}

	if err := user.UpdateProfile(identity.ProfileUpdate{
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		Gender:        input.Gender,
		StudentNumber: input.StudentNumber,
		GuardianName:  input.GuardianName,
		GuardianPhone: input.GuardianPhone,
	}); err != nil {
		return nil, err
	}
	if input.Role != nil {
		if err := user.ChangeRole(*input.Role); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, errEmailExists
		}
		return nil, err
	}
	dto := ToUserDTO(user)
	return &dto, nil
}

// Delete removes an account. Residents holding a bed must check out first.
func (s *UserService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	if actor.UserID == id {
		return shared.NewDomainError("CANNOT_DELETE_SELF", "You cannot delete your own account")
	}
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}

	booking, err := s.bookingRepo.FindOpenByStudent(ctx, id)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if booking != nil && booking.HoldsSeat() {
		return shared.NewDomainError("USER_HAS_ACTIVE_BOOKING", "User has a confirmed or active booking")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.revokeTokens(ctx, id)
	s.logger.Info("User deleted", zap.String("user_id", id.String()), zap.String("by", actor.UserID.String()))
	return nil
}

// Activate re-enables a disabled or locked account
func (s *UserService) Activate(ctx context.Context, actor shared.Actor, id uuid.UUID) (*UserDTO, error) {
	return s.SetStatus(ctx, actor, id, true)
}

// Deactivate disables an account and revokes its tokens
func (s *UserService) Deactivate(ctx context.Context, actor shared.Actor, id uuid.UUID) (*UserDTO, error) {
	return s.SetStatus(ctx, actor, id, false)
}

// SetStatus activates or deactivates an account
func (s *UserService) SetStatus(ctx context.Context, actor shared.Actor, id uuid.UUID, active bool) (*UserDTO, error) {
	if !active && actor.UserID == id {
		return nil, shared.NewDomainError("CANNOT_DEACTIVATE_SELF", "You cannot deactivate your own account")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		err = user.Activate()
	} else {
		err = user.Deactivate()
	}
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, user)
	if !active {
		s.revokeTokens(ctx, id)
	}

	s.logger.Info("User status changed",
		zap.String("user_id", id.String()),
		zap.String("status", string(user.Status)),
		zap.String("by", actor.UserID.String()))
	dto := ToUserDTO(user)
	return &dto, nil
}

// EnsureAdmin creates the first administrator when the database has none.
// It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	if email == "" {
		return false, nil
	}
	count, err := s.userRepo.CountByRole(ctx, shared.RoleAdmin)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if name == "" {
		name = "Administrator"
	}
	if _, err := s.Create(ctx, CreateUserInput{
		Email:    email,
		Password: password,
		Name:     name,
		Role:     shared.RoleAdmin,
	}); err != nil {
		return false, err
	}
	s.logger.Info("Bootstrap administrator created", zap.String("email", email))
	return true, nil
}

func (s *UserService) revokeTokens(ctx context.Context, id uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	// the revocation has to outlive every refresh token issued so far
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, id.String(), revokeWindow); err != nil {
		s.logger.Error("Failed to revoke user tokens", zap.String("user_id", id.String()), zap.Error(err))
	}
}
