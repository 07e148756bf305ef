package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createUserService() (*UserService, *MockUserRepository, *MockBookingRepository, *auth.InMemoryTokenBlacklist) {
	userRepo := new(MockUserRepository)
	bookingRepo := new(MockBookingRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewUserService(userRepo, bookingRepo, blacklist, &MockPublisher{}, zap.NewNop())
	return svc, userRepo, bookingRepo, blacklist
}

func adminActor() shared.Actor {
	return shared.NewActor(uuid.New(), shared.RoleAdmin)
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _, _ := createUserService()
	role := shared.RoleStudent

	userRepo.On("FindAll", ctx, mock.MatchedBy(func(f identity.UserFilter) bool {
		return f.Keyword == "jane" && f.Role != nil && *f.Role == role && f.Page == 2 && f.PageSize == 20
	})).Return([]*identity.User{newTestStudent("jane@uni.edu")}, int64(21), nil)

	page, err := svc.List(ctx, ListUsersInput{Search: "jane", Role: &role, Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.TotalPages)
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _, _ := createUserService()
	userRepo.On("ExistsByEmail", ctx, "warden@uni.edu").Return(false, nil)
	userRepo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

	dto, err := svc.Create(ctx, CreateUserInput{
		Email: "warden@uni.edu", Password: "Password123", Name: "Warden", Role: shared.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, shared.RoleAdmin, dto.Role)
	assert.Equal(t, identity.UserStatusActive, dto.Status)
}

func TestUserService_GetAccess(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _, _ := createUserService()
	user := newTestStudent("jane@uni.edu")
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	_, err := svc.Get(ctx, shared.NewActor(uuid.New(), shared.RoleStudent), user.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	dto, err := svc.Get(ctx, user.Actor(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, dto.Email)
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("student cannot change role", func(t *testing.T) {
		svc, _, _, _ := createUserService()
		user := newTestStudent("jane@uni.edu")
		role := shared.RoleAdmin
		_, err := svc.Update(ctx, user.Actor(), user.ID, UpdateUserInput{Role: &role})
		assert.Equal(t, "FORBIDDEN", shared.CodeOf(err))
	})

	t.Run("admin cannot change own role", func(t *testing.T) {
		svc, _, _, _ := createUserService()
		admin := adminActor()
		role := shared.RoleStudent
		_, err := svc.Update(ctx, admin, admin.UserID, UpdateUserInput{Role: &role})
		assert.Equal(t, "CANNOT_CHANGE_OWN_ROLE", shared.CodeOf(err))
	})

	t.Run("self profile update", func(t *testing.T) {
		svc, userRepo, _, _ := createUserService()
		user := newTestStudent("jane@uni.edu")
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("Update", ctx, user).Return(nil)

		name, phone := "Jane Smith", "+44 1234"
		dto, err := svc.Update(ctx, user.Actor(), user.ID, UpdateUserInput{Name: &name, Phone: &phone})
		require.NoError(t, err)
		assert.Equal(t, "Jane Smith", dto.Name)
		assert.Equal(t, "+44 1234", dto.Phone)
	})

	t.Run("email taken", func(t *testing.T) {
		svc, userRepo, _, _ := createUserService()
		user := newTestStudent("jane@uni.edu")
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("ExistsByEmail", ctx, "taken@uni.edu").Return(true, nil)
		email := "taken@uni.edu"
		_, err := svc.Update(ctx, adminActor(), user.ID, UpdateUserInput{Email: &email})
		assert.Equal(t, "USER_EMAIL_EXISTS", shared.CodeOf(err))
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("self", func(t *testing.T) {
		svc, _, _, _ := createUserService()
		admin := adminActor()
		err := svc.Delete(ctx, admin, admin.UserID)
		assert.Equal(t, "CANNOT_DELETE_SELF", shared.CodeOf(err))
	})

	t.Run("seat holding booking", func(t *testing.T) {
		svc, userRepo, bookingRepo, _ := createUserService()
		user := newTestStudent("jane@uni.edu")
		booking := newTestBooking(user.ID)
		require.NoError(t, booking.Confirm())
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		bookingRepo.On("FindOpenByStudent", ctx, user.ID).Return(booking, nil)

		err := svc.Delete(ctx, adminActor(), user.ID)
		assert.Equal(t, "USER_HAS_ACTIVE_BOOKING", shared.CodeOf(err))
		userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("no booking", func(t *testing.T) {
		svc, userRepo, bookingRepo, blacklist := createUserService()
		user := newTestStudent("jane@uni.edu")
		userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		userRepo.On("Delete", ctx, user.ID).Return(nil)
		bookingRepo.On("FindOpenByStudent", ctx, user.ID).Return(nil, shared.ErrNotFound)

		require.NoError(t, svc.Delete(ctx, adminActor(), user.ID))
		invalidated, err := blacklist.IsUserTokenInvalidated(ctx, user.ID.String(), user.CreatedAt.Add(-1))
		require.NoError(t, err)
		assert.True(t, invalidated)
	})
}

func TestUserService_SetStatus(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _, _ := createUserService()
	user := newTestStudent("jane@uni.edu")
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	dto, err := svc.Deactivate(ctx, adminActor(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.UserStatusInactive, dto.Status)

	_, err = svc.Deactivate(ctx, adminActor(), user.ID)
	assert.Equal(t, "USER_ALREADY_INACTIVE", shared.CodeOf(err))

	dto, err = svc.Activate(ctx, adminActor(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.UserStatusActive, dto.Status)

	admin := adminActor()
	_, err = svc.Deactivate(ctx, admin, admin.UserID)
	assert.Equal(t, "CANNOT_DEACTIVATE_SELF", shared.CodeOf(err))
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates when none exist", func(t *testing.T) {
		svc, userRepo, _, _ := createUserService()
		userRepo.On("CountByRole", ctx, shared.RoleAdmin).Return(int64(0), nil)
		userRepo.On("ExistsByEmail", ctx, "root@hostel.local").Return(false, nil)
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.Role == shared.RoleAdmin && u.Name == "Administrator"
		})).Return(nil)

		created, err := svc.EnsureAdmin(ctx, "root@hostel.local", "Password123", "")
		require.NoError(t, err)
		assert.True(t, created)
		userRepo.AssertExpectations(t)
	})

	t.Run("skips when an admin exists", func(t *testing.T) {
		svc, userRepo, _, _ := createUserService()
		userRepo.On("CountByRole", ctx, shared.RoleAdmin).Return(int64(1), nil)
		created, err := svc.EnsureAdmin(ctx, "root@hostel.local", "Password123", "")
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("disabled without email", func(t *testing.T) {
		svc, _, _, _ := createUserService()
		created, err := svc.EnsureAdmin(ctx, "", "", "")
		require.NoError(t, err)
		assert.False(t, created)
	})
}
