package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/interfaces/http/dto"
)

var setupOnce sync.Once

// SetupValidator configures gin's validator: JSON field names in errors plus
// the hostel specific tags role, gender, room_type, yearmonth and
// strong_password.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		for tag, fn := range customValidators {
			_ = v.RegisterValidation(tag, fn)
		}
	})
}

var customValidators = map[string]validator.Func{
	"role": func(fl validator.FieldLevel) bool {
		return shared.Role(fl.Field().String()).IsValid()
	},
	"gender": func(fl validator.FieldLevel) bool {
		return shared.Gender(fl.Field().String()).IsValid()
	},
	"room_type": func(fl validator.FieldLevel) bool {
		return housing.RoomType(fl.Field().String()).IsValid()
	},
	"yearmonth": func(fl validator.FieldLevel) bool {
		return finance.ValidBillingMonth(fl.Field().String())
	},
	"strong_password": func(fl validator.FieldLevel) bool {
		return identity.ValidatePassword(fl.Field().String()) == nil
	},
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
				Code:    e.Tag(),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError answers a failed bind. Malformed JSON gets
// INVALID_JSON, everything else a VALIDATION_ERROR with field details.
func HandleValidationError(c *gin.Context, err error) {
	requestID := GetRequestID(c)

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeInvalidJSON, "Malformed JSON body", requestID))
	case errors.As(err, &typeErr):
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", requestID,
			[]dto.ValidationDetail{{Field: typeErr.Field, Message: "Must be of type " + typeErr.Type.String(), Code: "type"}}))
	default:
		resp := FormatValidationErrors(err, requestID)
		if len(resp.Details) == 0 {
			resp.Error = err.Error()
		}
		c.JSON(http.StatusBadRequest, resp)
	}
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " items"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at most " + e.Param() + " items"
		}
		return "Must be at most " + e.Param()
	case "len":
		return "Must be exactly " + e.Param() + " characters"
	case "uuid", "uuid4":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "lt":
		return "Must be less than " + e.Param()
	case "gtfield":
		return "Must be after " + e.Param()
	case "url":
		return "Invalid URL format"
	case "e164":
		return "Invalid phone number"
	case "role":
		return "Must be ADMIN or STUDENT"
	case "gender":
		return "Must be MALE, FEMALE, MIXED or OTHER"
	case "room_type":
		return "Invalid room type"
	case "yearmonth":
		return "Must be a month in YYYY-MM format"
	case "strong_password":
		return "Password must be 8 to 72 characters with at least one letter and one number"
	default:
		return "Invalid value"
	}
}
