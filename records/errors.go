package records

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound signals that no record exists for the id.
	ErrNotFound = errors.New("records: not found")
	// ErrDuplicateID signals an insert collided with an existing id.
	ErrDuplicateID = errors.New("records: duplicate id")
	// ErrInvalidTransition signals a status change the module does not allow.
	ErrInvalidTransition = errors.New("records: invalid status transition")
	// ErrConfirmationRequired signals a delete that was not confirmed.
	ErrConfirmationRequired = errors.New("records: delete requires confirmation")
)

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "records: validation failed: " + strings.Join(parts, "; ")
}

// AsValidation unwraps a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator accumulates field errors. The first message recorded for a field
// wins, so required checks should run before format checks.
type Validator struct {
	fields map[string]string
}

func NewValidator() *Validator {
	return &Validator{fields: map[string]string{}}
}

func (v *Validator) add(field, msg string) {
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = msg
	}
}

// Check records msg for field when ok is false.
func (v *Validator) Check(ok bool, field, msg string) {
	if !ok {
		v.add(field, msg)
	}
}

func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "is required")
}

func (v *Validator) RequiredDate(field string, value Date) {
	v.Check(!value.IsZero(), field, "is required")
}

// Email checks the format of a non-empty value.
func (v *Validator) Email(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if _, err := mail.ParseAddress(value); err != nil || !emailRe.MatchString(value) {
		v.add(field, "must be a valid email address")
	}
}

// DateOrder requires end >= start when both are set.
func (v *Validator) DateOrder(startField string, start Date, endField string, end Date) {
	if start.IsZero() || end.IsZero() {
		return
	}
	v.Check(!end.Before(start), endField, "must not be before "+startField)
}

// MaxMonths bounds the span between two set dates.
func (v *Validator) MaxMonths(endField string, start, end Date, months int) {
	if start.IsZero() || end.IsZero() {
		return
	}
	v.Check(!end.After(start.AddMonths(months)), endField, fmt.Sprintf("must be within %d months of the start", months))
}

func (v *Validator) Positive(field string, value decimal.Decimal) {
	v.Check(value.IsPositive(), field, "must be greater than zero")
}

// Err returns nil when no field failed.
func (v *Validator) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(v.fields))
	for k, msg := range v.fields {
		out[k] = msg
	}
	return &ValidationError{Fields: out}
}
