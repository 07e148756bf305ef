package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself. Domain codes pass through unchanged.
const (
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeInvalidJSON   = "INVALID_JSON"
	ErrCodeInvalidID     = "INVALID_ID"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeBodyTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeTokenExpired  = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid  = "TOKEN_INVALID"
	ErrCodeTokenRevoked  = "TOKEN_REVOKED"
	ErrCodeRouteNotFound = "ROUTE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Codes missing
// here are resolved by suffix in GetHTTPStatus.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	"DB_ERROR":             http.StatusInternalServerError,
	"SAVE_FAILED":          http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR":  http.StatusInternalServerError,
	"UPLOAD_URL_FAILED":    http.StatusInternalServerError,
	"STORAGE_CHECK_FAILED": http.StatusInternalServerError,

	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeInvalidJSON:        http.StatusBadRequest,
	ErrCodeInvalidID:          http.StatusBadRequest,
	"VALIDATION_ERRORS":       http.StatusBadRequest,
	"VALIDATION_FAILED":       http.StatusBadRequest,
	"EMPTY_FILE":              http.StatusBadRequest,
	"EMPTY_SELECTION":         http.StatusBadRequest,
	"TOO_MANY_ITEMS":          http.StatusBadRequest,
	"TOO_MANY_ATTACHMENTS":    http.StatusBadRequest,
	"FILE_TOO_LARGE":          http.StatusBadRequest,
	"REPORT_TOO_LARGE":        http.StatusBadRequest,
	"RESOLUTION_REQUIRED":     http.StatusBadRequest,
	"UNSUPPORTED_FILE_TYPE":   http.StatusBadRequest,
	"DISALLOWED_CONTENT_TYPE": http.StatusBadRequest,
	"ROOMMATE_SELF_REQUEST":   http.StatusBadRequest,
	"ROOMMATE_TARGET_INVALID": http.StatusBadRequest,
	"CANNOT_DELETE_SELF":      http.StatusBadRequest,
	"CANNOT_DEACTIVATE_SELF":  http.StatusBadRequest,
	"ROOM_GENDER_MISMATCH":    http.StatusBadRequest,

	"ROOM_CAPACITY_BELOW_OCCUPANCY": http.StatusBadRequest,

	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeTokenExpired:   http.StatusUnauthorized,
	ErrCodeTokenInvalid:   http.StatusUnauthorized,
	ErrCodeTokenRevoked:   http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"INVALID_TOKEN_TYPE":  http.StatusUnauthorized,
	"TOKEN_NOT_VALID":     http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOTP_INVALID":        http.StatusUnauthorized,
	"TOTP_REQUIRED":       http.StatusUnauthorized,
	"INVALID_FILE_LINK":   http.StatusUnauthorized,

	ErrCodeForbidden:         http.StatusForbidden,
	"ACCOUNT_LOCKED":         http.StatusForbidden,
	"USER_INACTIVE":          http.StatusForbidden,
	"CANNOT_CHANGE_OWN_ROLE": http.StatusForbidden,
	"STUDENT_ONLY":           http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeRouteNotFound: http.StatusNotFound,
	"FILE_NOT_FOUND":     http.StatusNotFound,
	"PDF_DISABLED":       http.StatusNotFound,
	"STORAGE_DISABLED":   http.StatusNotFound,

	ErrCodeConflict:                      http.StatusConflict,
	"ALREADY_EXISTS":                     http.StatusConflict,
	"CONCURRENCY_CONFLICT":               http.StatusConflict,
	"CONCURRENT_MODIFICATION":            http.StatusConflict,
	"VERSION_CONFLICT":                   http.StatusConflict,
	"INVALID_STATE":                      http.StatusConflict,
	"EMAIL_EXISTS":                       http.StatusConflict,
	"USER_EMAIL_EXISTS":                  http.StatusConflict,
	"USER_HAS_ACTIVE_BOOKING":            http.StatusConflict,
	"USER_ALREADY_ACTIVE":                http.StatusConflict,
	"USER_ALREADY_INACTIVE":              http.StatusConflict,
	"CANNOT_DELETE":                      http.StatusConflict,
	"ROOM_NUMBER_EXISTS":                 http.StatusConflict,
	"ROOM_FULL":                          http.StatusConflict,
	"ROOM_UNAVAILABLE":                   http.StatusConflict,
	"ROOM_OCCUPIED":                      http.StatusConflict,
	"ROOM_IN_USE":                        http.StatusConflict,
	"ROOM_OCCUPANCY_UNDERFLOW":           http.StatusConflict,
	"BOOKING_ACTIVE_EXISTS":              http.StatusConflict,
	"BOOKING_INVALID_TRANSITION":         http.StatusConflict,
	"PAYMENT_ALREADY_EXISTS":             http.StatusConflict,
	"PAYMENT_INVALID_TRANSITION":         http.StatusConflict,
	"PAYMENT_NOT_PAID":                   http.StatusConflict,
	"COMPLAINT_INVALID_TRANSITION":       http.StatusConflict,
	"COMPLAINT_NOT_OPEN":                 http.StatusConflict,
	"LEAVE_INVALID_TRANSITION":           http.StatusConflict,
	"LEAVE_ALREADY_STARTED":              http.StatusConflict,
	"LEAVE_OVERLAP":                      http.StatusConflict,
	"EVENT_FULL":                         http.StatusConflict,
	"EVENT_STARTED":                      http.StatusConflict,
	"EVENT_NOT_SCHEDULED":                http.StatusConflict,
	"EVENT_ALREADY_REGISTERED":           http.StatusConflict,
	"EVENT_NOT_REGISTERED":               http.StatusConflict,
	"EVENT_CAPACITY_BELOW_REGISTRATIONS": http.StatusConflict,
	"ROOMMATE_REQUEST_EXISTS":            http.StatusConflict,
	"ROOMMATE_REQUEST_NOT_PENDING":       http.StatusConflict,
	"TWO_FACTOR_ALREADY_ENABLED":         http.StatusConflict,
	"TWO_FACTOR_NOT_ENABLED":             http.StatusConflict,
	"TWO_FACTOR_NOT_SETUP":               http.StatusConflict,

	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code. Unknown codes
// fall back on their shape and finally to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_CONFLICT"), strings.HasSuffix(code, "_EXISTS"),
		strings.HasPrefix(code, "ALREADY_"), strings.HasSuffix(code, "_INVALID_TRANSITION"):
		return http.StatusConflict
	case strings.HasPrefix(code, "INVALID_"), strings.Contains(code, "VALIDATION"):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
