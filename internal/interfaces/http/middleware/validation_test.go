package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationSample struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"omitempty,strong_password"`
	Role     string `json:"role" binding:"omitempty,role"`
	Gender   string `json:"gender" binding:"omitempty,gender"`
	RoomType string `json:"room_type" binding:"omitempty,room_type"`
	Month    string `json:"billing_month" binding:"omitempty,yearmonth"`
	Capacity int    `json:"capacity" binding:"omitempty,min=1,max=12"`
}

func validationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req validationSample
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func postJSON(router *gin.Engine, body string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHandleValidationError_CustomTags(t *testing.T) {
	router := validationRouter()

	tests := []struct {
		name  string
		body  string
		field string
		tag   string
	}{
		{"missing email", `{}`, "email", "required"},
		{"bad email", `{"email":"nope"}`, "email", "email"},
		{"weak password", `{"email":"a@b.co","password":"short"}`, "password", "strong_password"},
		{"digits only password", `{"email":"a@b.co","password":"12345678"}`, "password", "strong_password"},
		{"unknown role", `{"email":"a@b.co","role":"WARDEN"}`, "role", "role"},
		{"unknown gender", `{"email":"a@b.co","gender":"X"}`, "gender", "gender"},
		{"unknown room type", `{"email":"a@b.co","room_type":"SUITE"}`, "room_type", "room_type"},
		{"bad month", `{"email":"a@b.co","billing_month":"2026-13"}`, "billing_month", "yearmonth"},
		{"capacity too large", `{"email":"a@b.co","capacity":40}`, "capacity", "max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := postJSON(router, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, dto.ErrCodeValidation, resp.Code)
			require.NotEmpty(t, resp.Details)
			assert.Equal(t, tt.field, resp.Details[0].Field)
			assert.Equal(t, tt.tag, resp.Details[0].Code)
			assert.NotEmpty(t, resp.Details[0].Message)
		})
	}
}

func TestHandleValidationError_ValidInput(t *testing.T) {
	router := validationRouter()
	w, _ := postJSON(router, `{"email":"a@b.co","password":"hostel2026","role":"STUDENT","gender":"FEMALE","room_type":"DOUBLE","billing_month":"2026-09","capacity":2}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	router := validationRouter()

	w, resp := postJSON(router, `{"email":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Code)

	w, resp = postJSON(router, `{"email":"a@b.co","capacity":"two"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, resp.Code)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "type", resp.Details[0].Code)
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-9")
	assert.Equal(t, "req-9", resp.RequestID)
	assert.Empty(t, resp.Details)
}
