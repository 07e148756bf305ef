package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService      *identity.AuthService
	twoFactorService *identity.TwoFactorService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, twoFactorService *identity.TwoFactorService) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		twoFactorService: twoFactorService,
	}
}

// Register godoc
// @Summary      Register a student account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Student details"
// @Success      201 {object} dto.Response{data=identity.AuthResult}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identity.RegisterInput{
		Email:         req.Email,
		Password:      req.Password,
		Name:          req.Name,
		Phone:         req.Phone,
		StudentNumber: req.StudentNumber,
		Gender:        shared.Gender(req.Gender),
		IP:            c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Login godoc
// @Summary      User login
// @Description  Authenticate with email and password. Accounts with two-factor
// @Description  authentication also need totp_code.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=identity.AuthResult}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		TOTPCode: req.TOTPCode,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RefreshToken godoc
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} dto.Response{data=identity.AuthResult}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
// @Summary      User logout
// @Description  Revokes the presented access token until it expires
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID in token")
		return
	}

	err = h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		UserID:       userID,
		TokenJTI:     claims.ID,
		RemainingTTL: claims.GetRemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: "Logged out successfully"})
}

// GetCurrentUser godoc
// @Summary      Get current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.UserDTO}
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(c.Request.Context(), actor.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword godoc
// @Summary      Change own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Old and new password"
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), identity.ChangePasswordInput{
		UserID:      actor.UserID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: "Password changed successfully"})
}

// SetupTwoFactor godoc
// @Summary      Start two-factor enrollment
// @Description  Generates a TOTP secret. It is activated by the enable endpoint.
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.TwoFactorSetup}
// @Failure      401 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /auth/2fa/setup [post]
func (h *AuthHandler) SetupTwoFactor(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	setup, err := h.twoFactorService.Setup(c.Request.Context(), actor.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setup)
}

// EnableTwoFactor godoc
// @Summary      Enable two-factor login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body TOTPCodeRequest true "Code from the authenticator app"
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Failure      401 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /auth/2fa/enable [post]
func (h *AuthHandler) EnableTwoFactor(c *gin.Context) {
	h.twoFactor(c, h.twoFactorService.Enable, "Two-factor authentication enabled")
}

// DisableTwoFactor godoc
// @Summary      Disable two-factor login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body TOTPCodeRequest true "Current code"
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Failure      401 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /auth/2fa/disable [post]
func (h *AuthHandler) DisableTwoFactor(c *gin.Context) {
	h.twoFactor(c, h.twoFactorService.Disable, "Two-factor authentication disabled")
}

func (h *AuthHandler) twoFactor(c *gin.Context, fn func(ctx context.Context, userID uuid.UUID, code string) error, done string) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req TOTPCodeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := fn(c.Request.Context(), actor.UserID, req.Code); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: done})
}
