package csvimport

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldType represents the expected type of a field
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInt     FieldType = "int"
	TypeDecimal FieldType = "decimal"
	TypeDate    FieldType = "date"
	TypeEmail   FieldType = "email"
)

// FieldRule defines validation rules for a column
type FieldRule struct {
	Column     string
	Type       FieldType
	Required   bool
	MinLength  int
	MaxLength  int
	MinValue   *decimal.Decimal
	MaxValue   *decimal.Decimal
	OneOf      []string
	DateFormat string
	Unique     bool
	CustomFunc func(value string) error
}

// FieldRuleBuilder helps build field rules fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a rule for column
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{
		Column:     column,
		Type:       TypeString,
		DateFormat: "2006-01-02",
	}}
}

func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

func (b *FieldRuleBuilder) Int() *FieldRuleBuilder {
	b.rule.Type = TypeInt
	return b
}

func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

func (b *FieldRuleBuilder) Date() *FieldRuleBuilder {
	b.rule.Type = TypeDate
	return b
}

func (b *FieldRuleBuilder) Email() *FieldRuleBuilder {
	b.rule.Type = TypeEmail
	return b
}

// Length bounds the value length in characters. Zero means unbounded.
func (b *FieldRuleBuilder) Length(min, max int) *FieldRuleBuilder {
	b.rule.MinLength = min
	b.rule.MaxLength = max
	return b
}

// Range bounds numeric values inclusively
func (b *FieldRuleBuilder) Range(min, max decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &min
	b.rule.MaxValue = &max
	return b
}

// Min sets only a lower bound
func (b *FieldRuleBuilder) Min(min decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &min
	return b
}

// OneOf restricts the value to the given options, compared case insensitively
func (b *FieldRuleBuilder) OneOf(values ...string) *FieldRuleBuilder {
	b.rule.OneOf = values
	return b
}

// Unique rejects values repeated within the file, compared case insensitively
func (b *FieldRuleBuilder) Unique() *FieldRuleBuilder {
	b.rule.Unique = true
	return b
}

func (b *FieldRuleBuilder) Custom(fn func(value string) error) *FieldRuleBuilder {
	b.rule.CustomFunc = fn
	return b
}

func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator applies rules to rows in order and collects errors
type FieldValidator struct {
	rules       []FieldRule
	uniqueCheck map[string]map[string]int // column -> value -> first line
	errors      *ErrorCollection
}

// NewFieldValidator creates a new field validator
func NewFieldValidator(rules []FieldRule, maxErrors int) *FieldValidator {
	return &FieldValidator{
		rules:       rules,
		uniqueCheck: make(map[string]map[string]int),
		errors:      NewErrorCollection(maxErrors),
	}
}

// ValidateRow validates every ruled column of row and reports whether it passed
func (v *FieldValidator) ValidateRow(row *Row) bool {
	ok := true
	for _, rule := range v.rules {
		if !v.validateField(row, rule) {
			ok = false
		}
	}
	return ok
}

func (v *FieldValidator) validateField(row *Row, rule FieldRule) bool {
	column := rule.Column
	value := row.Get(column)
	line := row.LineNumber

	if value == "" {
		if rule.Required {
			v.errors.AddRequiredError(line, column)
			return false
		}
		return true
	}

	if err := validateType(value, rule.Type, rule.DateFormat); err != nil {
		v.errors.AddTypeError(line, column, string(rule.Type), value)
		return false
	}

	n := utf8.RuneCountInString(value)
	if (rule.MinLength > 0 && n < rule.MinLength) || (rule.MaxLength > 0 && n > rule.MaxLength) {
		v.errors.Add(NewRowError(line, column, ErrCodeInvalidLength, lengthMessage(rule.MinLength, rule.MaxLength)))
		return false
	}

	if rule.Type == TypeInt || rule.Type == TypeDecimal {
		d, _ := decimal.NewFromString(value)
		if (rule.MinValue != nil && d.LessThan(*rule.MinValue)) || (rule.MaxValue != nil && d.GreaterThan(*rule.MaxValue)) {
			v.errors.Add(NewRowError(line, column, ErrCodeInvalidRange, rangeMessage(rule.MinValue, rule.MaxValue)))
			return false
		}
	}

	if len(rule.OneOf) > 0 && !containsFold(rule.OneOf, value) {
		v.errors.Add(RowError{Row: line, Column: column, Code: ErrCodeInvalidValue,
			Message: "must be one of " + strings.Join(rule.OneOf, ", "), Value: value})
		return false
	}

	if rule.CustomFunc != nil {
		if err := rule.CustomFunc(value); err != nil {
			v.errors.Add(RowError{Row: line, Column: column, Code: ErrCodeValidation, Message: err.Error(), Value: value})
			return false
		}
	}

	if rule.Unique {
		seen := v.uniqueCheck[column]
		if seen == nil {
			seen = make(map[string]int)
			v.uniqueCheck[column] = seen
		}
		key := strings.ToLower(value)
		if first, exists := seen[key]; exists {
			v.errors.Add(RowError{Row: line, Column: column, Code: ErrCodeDuplicate,
				Message: fmt.Sprintf("duplicate value (first seen in row %d)", first), Value: value})
			return false
		}
		seen[key] = line
	}
	return true
}

func validateType(value string, fieldType FieldType, dateFormat string) error {
	switch fieldType {
	case TypeInt:
		_, err := strconv.ParseInt(value, 10, 64)
		return err
	case TypeDecimal:
		_, err := decimal.NewFromString(value)
		return err
	case TypeDate:
		_, err := time.Parse(dateFormat, value)
		return err
	case TypeEmail:
		addr, err := mail.ParseAddress(value)
		if err != nil {
			return err
		}
		if addr.Address != value {
			return fmt.Errorf("expected a bare address")
		}
	}
	return nil
}

func lengthMessage(min, max int) string {
	switch {
	case min > 0 && max > 0:
		return fmt.Sprintf("length must be between %d and %d", min, max)
	case max > 0:
		return fmt.Sprintf("length must be at most %d", max)
	}
	return fmt.Sprintf("length must be at least %d", min)
}

func rangeMessage(min, max *decimal.Decimal) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("value must be between %s and %s", min, max)
	case max != nil:
		return fmt.Sprintf("value must be at most %s", max)
	}
	return fmt.Sprintf("value must be at least %s", min)
}

func containsFold(options []string, value string) bool {
	for _, o := range options {
		if strings.EqualFold(o, value) {
			return true
		}
	}
	return false
}

// Errors returns the error collection
func (v *FieldValidator) Errors() *ErrorCollection {
	return v.errors
}

// TitleName normalizes a person's name to title case with single spaces,
// e.g. "  jANE   doe " -> "Jane Doe"
func TitleName(name string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(name), " "))
}

// Result is the outcome of validating a whole file
type Result struct {
	// Total counts non blank data rows
	Total  int
	Valid  []*Row
	Errors *ErrorCollection
	failed []int
}

// FailedRows returns the line numbers of rows with errors, in file order
func (r *Result) FailedRows() []int {
	return r.failed
}

// Validate parses the header and every row of the file and applies rules.
// Structural problems (encoding, missing columns, no rows) are returned as
// errors; per row problems are collected in the result.
func Validate(parser *CSVParser, rules []FieldRule, maxErrors int) (*Result, error) {
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	var required []string
	for _, r := range rules {
		if r.Required {
			required = append(required, r.Column)
		}
	}
	if missing := parser.ValidateHeaders(required); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrMissingHeader, strings.Join(missing, ", "))
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}

	validator := NewFieldValidator(rules, maxErrors)
	result := &Result{Total: len(rows), Errors: validator.Errors()}
	for _, row := range rows {
		if validator.ValidateRow(row) {
			result.Valid = append(result.Valid, row)
		} else {
			result.failed = append(result.failed, row.LineNumber)
		}
	}
	return result, nil
}
