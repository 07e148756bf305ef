package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock account after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

var (
	errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	errUserInactive       = shared.NewDomainError("USER_INACTIVE", "Account has been deactivated")
	errAccountLocked      = shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
	errTokenRevoked       = shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	publisher  shared.EventPublisher
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service. blacklist may be nil,
// which disables logout revocation.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	publisher shared.EventPublisher,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		publisher:  publisher,
		config:     config,
		logger:     logger,
	}
}

// Register creates a STUDENT account and logs it in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, identity.NormalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errEmailExists
	}

	user, err := identity.NewStudent(input.Email, input.Name, input.Password)
	if err != nil {
		return nil, err
	}
	gender := input.Gender
	if err := user.UpdateProfile(identity.ProfileUpdate{
		Phone:         &input.Phone,
		StudentNumber: &input.StudentNumber,
		Gender:        &gender,
	}); err != nil {
		return nil, err
	}
	user.RecordLoginSuccess(input.IP)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, errEmailExists
		}
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, user)

	s.logger.Info("Student registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))
	return s.issue(user)
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, identity.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email", zap.String("email", input.Email))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if user.Status == identity.UserStatusInactive {
		s.logger.Warn("Login attempt for deactivated account", zap.String("user_id", user.ID.String()))
		return nil, errUserInactive
	}
	if user.IsLocked() {
		s.logger.Warn("Login attempt for locked account", zap.String("user_id", user.ID.String()))
		return nil, errAccountLocked
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error("Failed to update user after login failure", zap.Error(err))
		}
		common.PublishEvents(ctx, s.publisher, s.logger, user)
		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("user_id", user.ID.String()),
				zap.Int("attempts", user.FailedAttempts))
			return nil, errAccountLocked
		}
		return nil, errInvalidCredentials
	}

	if user.TwoFactorEnabled {
		if input.TOTPCode == "" {
			return nil, shared.NewDomainError("TOTP_REQUIRED", "A two-factor code is required")
		}
		if !verifyTOTP(user.TOTPSecret, input.TOTPCode, time.Now()) {
			return nil, shared.NewDomainError("TOTP_INVALID", "Two-factor code is invalid")
		}
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Update(ctx, user); err != nil {
		// login still succeeds without the bookkeeping
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// Refresh exchanges a refresh token for a new pair. The used refresh token is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Debug("Refresh token rejected", zap.Error(err))
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	var user *identity.User
	pair, _, err := s.jwtService.RefreshTokenPair(refreshToken, func(userID uuid.UUID) (auth.Subject, error) {
		u, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return auth.Subject{}, err
		}
		if !u.CanLogin() {
			return auth.Subject{}, errUserInactive
		}
		user = u
		return subjectOf(u), nil
	})
	if err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, tokenError(auth.ErrInvalidToken)
			}
			return nil, err
		}
		return nil, tokenError(err)
	}

	if s.blacklist != nil {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Error("Failed to revoke used refresh token", zap.Error(err))
		}
	}
	return &AuthResult{TokenPair: *pair, User: ToUserDTO(user)}, nil
}

// Logout revokes the presented access token until it expires
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if s.blacklist == nil || input.TokenJTI == "" {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.RemainingTTL); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return err
	}
	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// ValidateAccessToken checks signature, expiry and revocation of an access token
func (s *AuthService) ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, tokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Me returns the current user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := ToUserDTO(user)
	return &dto, nil
}

// ChangePassword changes the caller's password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, user)
	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return errTokenRevoked
	}
	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return err
	}
	if invalidated {
		return errTokenRevoked
	}
	return nil
}

func (s *AuthService) issue(user *identity.User) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(subjectOf(user))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens").WithCause(err)
	}
	return &AuthResult{TokenPair: *pair, User: ToUserDTO(user)}, nil
}

func subjectOf(u *identity.User) auth.Subject {
	return auth.Subject{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func tokenError(err error) *shared.DomainError {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return errTokenRevoked
	}
	return shared.NewDomainError("TOKEN_INVALID", "Invalid token")
}
