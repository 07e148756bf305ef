package handler

import "github.com/hostelhub/backend/internal/interfaces/http/dto"

// CreateUserRequest is the body an administrator uses to create an account
type CreateUserRequest struct {
	Email         string `json:"email" binding:"required,email,max=255"`
	Password      string `json:"password" binding:"required,strong_password"`
	Name          string `json:"name" binding:"required,min=2,max=100"`
	Phone         string `json:"phone" binding:"omitempty,max=20"`
	Role          string `json:"role" binding:"omitempty,role"`
	Gender        string `json:"gender" binding:"omitempty,gender"`
	StudentNumber string `json:"student_number" binding:"omitempty,max=50"`
	GuardianName  string `json:"guardian_name" binding:"omitempty,max=100"`
	GuardianPhone string `json:"guardian_phone" binding:"omitempty,max=20"`
}

// UpdateUserRequest carries optional profile changes. Role is admin only.
type UpdateUserRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email         *string `json:"email" binding:"omitempty,email,max=255"`
	Phone         *string `json:"phone" binding:"omitempty,max=20"`
	Gender        *string `json:"gender" binding:"omitempty,gender"`
	StudentNumber *string `json:"student_number" binding:"omitempty,max=50"`
	GuardianName  *string `json:"guardian_name" binding:"omitempty,max=100"`
	GuardianPhone *string `json:"guardian_phone" binding:"omitempty,max=20"`
	Role          *string `json:"role" binding:"omitempty,role"`
}

// ListUsersQuery filters the user list
type ListUsersQuery struct {
	dto.ListRequest
	Role   string `form:"role" binding:"omitempty,role"`
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE LOCKED"`
	Gender string `form:"gender" binding:"omitempty,gender"`
}
