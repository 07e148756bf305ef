package bulk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// ActionType names a bulk action
type ActionType string

const (
	ActionImportStudents      ActionType = "import_students"
	ActionImportRooms         ActionType = "import_rooms"
	ActionGenerateRent        ActionType = "generate_rent"
	ActionPaymentStatus       ActionType = "payment_status"
	ActionLeaveReview         ActionType = "leave_review"
	ActionBookingCancellation ActionType = "booking_cancellation"
	ActionUserStatus          ActionType = "user_status"
	ActionNotification        ActionType = "notification"
)

// IsValid checks if the action type is valid
func (a ActionType) IsValid() bool {
	switch a {
	case ActionImportStudents, ActionImportRooms, ActionGenerateRent, ActionPaymentStatus,
		ActionLeaveReview, ActionBookingCancellation, ActionUserStatus, ActionNotification:
		return true
	}
	return false
}

// OperationStatus represents the status of a bulk operation
type OperationStatus string

const (
	OperationStatusProcessing OperationStatus = "processing"
	OperationStatusCompleted  OperationStatus = "completed"
	OperationStatusPartial    OperationStatus = "partial"
	OperationStatusFailed     OperationStatus = "failed"
)

// IsTerminal returns true if this is a terminal state
func (s OperationStatus) IsTerminal() bool {
	return s != OperationStatusProcessing
}

// ItemError reports why one row or id of a bulk action failed.
// Row is 1-based and counts the header line of imported files.
type ItemError struct {
	Row   int        `json:"row,omitempty"`
	ID    *uuid.UUID `json:"id,omitempty"`
	Code  string     `json:"code,omitempty"`
	Error string     `json:"error"`
}

// Result is the outcome every bulk action returns
type Result struct {
	Total     int         `json:"total"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	// Skipped counts items that needed no change, such as rent already charged
	Skipped   int         `json:"skipped,omitempty"`
	Errors    []ItemError `json:"errors"`
}

// NewResult creates an empty result for total items
func NewResult(total int) *Result {
	return &Result{Total: total, Errors: make([]ItemError, 0)}
}

// Success counts one processed item
func (r *Result) Success() {
	r.Succeeded++
}

// Skip counts an item left unchanged. It is neither a success nor a failure.
func (r *Result) Skip() {
	r.Skipped++
}

// FailRow records a failed file row
func (r *Result) FailRow(row int, err error) {
	r.Failed++
	r.Errors = append(r.Errors, ItemError{Row: row, Code: shared.CodeOf(err), Error: err.Error()})
}

// FailID records a failed item by id
func (r *Result) FailID(id uuid.UUID, err error) {
	r.Failed++
	r.Errors = append(r.Errors, ItemError{ID: &id, Code: shared.CodeOf(err), Error: err.Error()})
}

// Operation tracks the history and result of a bulk action
type Operation struct {
	ID          uuid.UUID
	Action      ActionType
	Source      string
	PerformedBy uuid.UUID
	Status      OperationStatus
	Total       int
	Succeeded   int
	Failed      int
	Errors      []ItemError
	StartedAt   time.Time
	CompletedAt *time.Time
}

// StartOperation records the start of a bulk action. Source is a file name or a short description.
func StartOperation(action ActionType, source string, performedBy uuid.UUID) (*Operation, error) {
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_BULK_ACTION", fmt.Sprintf("Invalid bulk action: %s", action))
	}
	return &Operation{
		ID:          uuid.New(),
		Action:      action,
		Source:      source,
		PerformedBy: performedBy,
		Status:      OperationStatusProcessing,
		Errors:      make([]ItemError, 0),
		StartedAt:   time.Now(),
	}, nil
}

// Finish stores the result and derives the final status
func (o *Operation) Finish(r *Result) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot finish from state: %s", o.Status))
	}
	o.Total = r.Total
	o.Succeeded = r.Succeeded
	o.Failed = r.Failed
	o.Errors = r.Errors

	switch {
	case r.Failed == 0:
		o.Status = OperationStatusCompleted
	case r.Succeeded == 0:
		o.Status = OperationStatusFailed
	default:
		o.Status = OperationStatusPartial
	}
	now := time.Now()
	o.CompletedAt = &now
	return nil
}

// Abort marks an operation that could not run at all, such as an unreadable file
func (o *Operation) Abort(err error) {
	o.Status = OperationStatusFailed
	o.Errors = append(o.Errors, ItemError{Code: shared.CodeOf(err), Error: err.Error()})
	now := time.Now()
	o.CompletedAt = &now
}

// SuccessRate returns the success rate as a percentage (0-100)
func (o *Operation) SuccessRate() float64 {
	if o.Total == 0 {
		return 0
	}
	return float64(o.Succeeded) / float64(o.Total) * 100
}

// Duration returns the duration of the operation
func (o *Operation) Duration() time.Duration {
	if o.CompletedAt == nil {
		return time.Since(o.StartedAt)
	}
	return o.CompletedAt.Sub(o.StartedAt)
}

// ErrorsJSON returns the item errors as a JSON string
func (o *Operation) ErrorsJSON() (string, error) {
	if len(o.Errors) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(o.Errors)
	if err != nil {
		return "", fmt.Errorf("failed to marshal bulk errors: %w", err)
	}
	return string(data), nil
}

// SetErrorsFromJSON parses item errors from a JSON string
func (o *Operation) SetErrorsFromJSON(s string) error {
	if s == "" || s == "[]" {
		o.Errors = make([]ItemError, 0)
		return nil
	}
	var errs []ItemError
	if err := json.Unmarshal([]byte(s), &errs); err != nil {
		return fmt.Errorf("failed to unmarshal bulk errors: %w", err)
	}
	o.Errors = errs
	return nil
}
