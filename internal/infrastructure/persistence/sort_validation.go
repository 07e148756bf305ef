package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"email":          true,
	"student_number": true,
	"status":         true,
	"last_login_at":  true,
}

// RoomSortFields contains allowed sort fields for rooms
var RoomSortFields = map[string]bool{
	"created_at":   true,
	"number":       true,
	"block":        true,
	"floor":        true,
	"type":         true,
	"capacity":     true,
	"occupancy":    true,
	"monthly_rent": true,
	"status":       true,
}

// BookingSortFields contains allowed sort fields for bookings
var BookingSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"start_date": true,
	"end_date":   true,
	"status":     true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"created_at":    true,
	"due_date":      true,
	"paid_at":       true,
	"amount":        true,
	"billing_month": true,
	"status":        true,
}

// ComplaintSortFields contains allowed sort fields for complaints
var ComplaintSortFields = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"priority":    true,
	"status":      true,
	"category":    true,
	"resolved_at": true,
}
