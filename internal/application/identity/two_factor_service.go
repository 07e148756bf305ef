package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
)

const defaultTOTPIssuer = "Hostel"

var errTOTPInvalid = shared.NewDomainError("TOTP_INVALID", "Two-factor code is invalid")

// TwoFactorService enrolls and removes TOTP authenticators
type TwoFactorService struct {
	userRepo identity.UserRepository
	issuer   string
	logger   *zap.Logger
}

// NewTwoFactorService creates a TwoFactorService. issuer is shown in authenticator apps.
func NewTwoFactorService(userRepo identity.UserRepository, issuer string, logger *zap.Logger) *TwoFactorService {
	if issuer == "" {
		issuer = defaultTOTPIssuer
	}
	return &TwoFactorService{userRepo: userRepo, issuer: issuer, logger: logger}
}

// Setup generates a new secret. It becomes active once Enable confirms a code.
func (s *TwoFactorService) Setup(ctx context.Context, userID uuid.UUID) (*TwoFactorSetup, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate two-factor secret").WithCause(err)
	}
	if err := user.SetPendingTOTPSecret(key.Secret()); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return &TwoFactorSetup{Secret: key.Secret(), URL: key.URL()}, nil
}

// Enable turns on two-factor login after checking a code from the pending secret
func (s *TwoFactorService) Enable(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoFactorEnabled {
		return shared.NewDomainError("TWO_FACTOR_ALREADY_ENABLED", "Two-factor authentication is already enabled")
	}
	if user.TOTPSecret != "" && !verifyTOTP(user.TOTPSecret, code, time.Now()) {
		return errTOTPInvalid
	}
	if err := user.EnableTwoFactor(); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("Two-factor authentication enabled", zap.String("user_id", user.ID.String()))
	return nil
}

// Disable turns off two-factor login. A valid current code is required.
func (s *TwoFactorService) Disable(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled {
		return shared.NewDomainError("TWO_FACTOR_NOT_ENABLED", "Two-factor authentication is not enabled")
	}
	if !verifyTOTP(user.TOTPSecret, code, time.Now()) {
		return errTOTPInvalid
	}
	user.DisableTwoFactor()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("Two-factor authentication disabled", zap.String("user_id", user.ID.String()))
	return nil
}

// verifyTOTP accepts the code of the current 30 second step and one step either side
func verifyTOTP(secret, code string, now time.Time) bool {
	if secret == "" || code == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, now.UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
