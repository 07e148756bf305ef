package csvimport

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Row error codes
const (
	ErrCodeRequiredField = "REQUIRED_FIELD"
	ErrCodeInvalidType   = "INVALID_TYPE"
	ErrCodeInvalidLength = "INVALID_LENGTH"
	ErrCodeInvalidRange  = "INVALID_RANGE"
	ErrCodeInvalidValue  = "INVALID_VALUE"
	ErrCodeDuplicate     = "DUPLICATE_IN_FILE"
	ErrCodeMalformedRow  = "MALFORMED_ROW"
	ErrCodeValidation    = "VALIDATION_FAILED"
)

var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidEncoding = errors.New("CSV file is not UTF-8 or UTF-16 encoded")
	ErrMissingHeader   = errors.New("CSV file missing header row")
	ErrNoDataRows      = errors.New("CSV file contains no data rows")
	ErrTooManyRows     = errors.New("CSV file exceeds the maximum number of rows")
)

// RowError is a problem with one cell, or with the whole row when Column is empty
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a RowError
func NewRowError(row int, column, code, message string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message}
}

// ErrorCollection keeps at most maxErrors errors but counts all of them
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a collection. maxErrors <= 0 means 100.
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{maxErrors: maxErrors}
}

// Add records an error
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddRequiredError records a missing required value
func (ec *ErrorCollection) AddRequiredError(row int, column string) {
	ec.Add(NewRowError(row, column, ErrCodeRequiredField, fmt.Sprintf("field '%s' is required", column)))
}

// AddTypeError records a value that does not parse as the expected type
func (ec *ErrorCollection) AddTypeError(row int, column, expectedType, value string) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeInvalidType,
		Message: "expected " + expectedType, Value: value})
}

// Errors returns the kept errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// TotalCount returns the number of errors added, including dropped ones
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors returns true if any error was added
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated returns true if errors were dropped because of the limit
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}

// ByRow groups the kept errors by line number
func (ec *ErrorCollection) ByRow() map[int][]RowError {
	out := make(map[int][]RowError)
	for _, e := range ec.errors {
		out[e.Row] = append(out[e.Row], e)
	}
	return out
}

// RowMessage joins the messages of one row's errors, e.g. for a bulk result
func RowMessage(errs []RowError) string {
	sorted := make([]RowError, len(errs))
	copy(sorted, errs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Column < sorted[j].Column })

	parts := make([]string, 0, len(sorted))
	for _, e := range sorted {
		if e.Column != "" {
			parts = append(parts, e.Column+": "+e.Message)
		} else {
			parts = append(parts, e.Message)
		}
	}
	return strings.Join(parts, "; ")
}

func (ec *ErrorCollection) String() string {
	if !ec.HasErrors() {
		return "no errors"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s) found", ec.totalCount)
	if ec.IsTruncated() {
		fmt.Fprintf(&sb, " (showing first %d)", ec.maxErrors)
	}
	sb.WriteString(":\n")
	for _, err := range ec.errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}
