package handler

// =====================
// Auth Request DTOs
// =====================

// RegisterRequest is the body of student self registration
type RegisterRequest struct {
	Email         string `json:"email" binding:"required,email,max=255"`
	Password      string `json:"password" binding:"required,strong_password"`
	Name          string `json:"name" binding:"required,min=2,max=100"`
	Phone         string `json:"phone" binding:"omitempty,max=20"`
	StudentNumber string `json:"student_number" binding:"omitempty,max=50"`
	Gender        string `json:"gender" binding:"omitempty,gender"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=128"`
	TOTPCode string `json:"totp_code" binding:"omitempty,len=6,numeric"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,strong_password,nefield=OldPassword"`
}

// TOTPCodeRequest carries a code from an authenticator app
type TOTPCodeRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

// MessageResponse is a plain confirmation
type MessageResponse struct {
	Message string `json:"message"`
}
