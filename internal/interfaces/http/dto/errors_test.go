package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"ACCOUNT_LOCKED", http.StatusForbidden},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{"BOOKING_ACTIVE_EXISTS", http.StatusConflict},
		{"ROOM_FULL", http.StatusConflict},
		{"ROOM_CAPACITY_BELOW_OCCUPANCY", http.StatusBadRequest},
		{"STUDENT_ONLY", http.StatusForbidden},
		{"PAYMENT_NOT_PAID", http.StatusConflict},
		{"INVALID_STATE", http.StatusConflict},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeBodyTooLarge, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestGetHTTPStatus_Fallbacks(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus("LEAVE_NOT_FOUND"))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus("SOMETHING_EXISTS"))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus("ALREADY_CANCELLED"))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus("NOTICE_INVALID_TRANSITION"))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_ROOM_TYPE"))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("CSV_VALIDATION"))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_ODD"))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(""))
}

func TestErrorResponse_JSONShape(t *testing.T) {
	resp := NewErrorResponseWithRequestID("ROOM_FULL", "Room is full", "req-1")
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Room is full", body["error"])
	assert.Equal(t, "ROOM_FULL", body["code"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.NotContains(t, body, "data")
	assert.NotContains(t, body, "details")
}

func TestValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-2", []ValidationDetail{
		{Field: "email", Message: "email is required", Code: "required"},
	})
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Code)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "email", resp.Details[0].Field)
}

func TestSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		pageSize   int
		totalPages int
	}{
		{"exact", 40, 20, 2},
		{"remainder", 41, 20, 3},
		{"empty", 0, 20, 0},
		{"zero page size", 3, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewSuccessResponseWithMeta([]int{}, tt.total, 1, tt.pageSize)
			assert.True(t, resp.Success)
			require.NotNil(t, resp.Meta)
			assert.Equal(t, tt.totalPages, resp.Meta.TotalPages)
		})
	}
}
