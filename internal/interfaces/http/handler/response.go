package handler

import "github.com/hostelhub/backend/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success   bool      `json:"success"`
	Data      T         `json:"data,omitempty"`
	Meta      *dto.Meta `json:"meta,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success   bool                   `json:"success" example:"false"`
	Error     string                 `json:"error" example:"Room not found"`
	Code      string                 `json:"code" example:"ROOM_NOT_FOUND"`
	RequestID string                 `json:"request_id,omitempty"`
	Details   []dto.ValidationDetail `json:"details,omitempty"`
}
