package identity

import (
	"context"
	"testing"
	"time"

	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTwoFactorService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := newTestStudent("jane@uni.edu")
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Update", ctx, user).Return(nil)

	svc := NewTwoFactorService(userRepo, "Hostel Test", zap.NewNop())

	setup, err := svc.Setup(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, setup.Secret)
	assert.Contains(t, setup.URL, "otpauth://totp/")
	assert.Contains(t, setup.URL, "issuer=Hostel")
	assert.False(t, user.TwoFactorEnabled)

	err = svc.Enable(ctx, user.ID, "123")
	assert.Equal(t, "TOTP_INVALID", shared.CodeOf(err))

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Enable(ctx, user.ID, code))
	assert.True(t, user.TwoFactorEnabled)

	_, err = svc.Setup(ctx, user.ID)
	assert.Equal(t, "TWO_FACTOR_ALREADY_ENABLED", shared.CodeOf(err))

	err = svc.Disable(ctx, user.ID, "")
	assert.Equal(t, "TOTP_INVALID", shared.CodeOf(err))

	require.NoError(t, svc.Disable(ctx, user.ID, code))
	assert.False(t, user.TwoFactorEnabled)
	assert.Empty(t, user.TOTPSecret)
}

func TestTwoFactorService_EnableWithoutSetup(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := newTestStudent("jane@uni.edu")
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	svc := NewTwoFactorService(userRepo, "", zap.NewNop())
	err := svc.Enable(ctx, user.ID, "123456")
	assert.Equal(t, "TWO_FACTOR_NOT_SETUP", shared.CodeOf(err))
}

func TestVerifyTOTP_Skew(t *testing.T) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "Hostel", AccountName: "a@b.cd"})
	require.NoError(t, err)
	now := time.Now()

	prev, err := totp.GenerateCode(key.Secret(), now.Add(-30*time.Second))
	require.NoError(t, err)
	assert.True(t, verifyTOTP(key.Secret(), prev, now))

	old, err := totp.GenerateCode(key.Secret(), now.Add(-5*time.Minute))
	require.NoError(t, err)
	if old != prev {
		assert.False(t, verifyTOTP(key.Secret(), old, now))
	}
	assert.False(t, verifyTOTP("", prev, now))
}
