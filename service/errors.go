package service

import (
	"errors"
	"sort"
	"strings"
)

// Business error definitions
var (
	// ErrNotFound means a referenced entity id does not exist (or is not
	// visible through the soft-delete filter).
	ErrNotFound = errors.New("not found")
)

// NonFieldErrors is the key used for validation errors that concern the
// whole payload rather than a single field.
const NonFieldErrors = "non_field_errors"

// ValidationError is a client-correctable input error. Messages are keyed
// by field name, or by NonFieldErrors for cross-field rules, so the handler
// layer can return them as a structured 400 body.
type ValidationError struct {
	Errors map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Errors[k], "; "))
	}
	return strings.Join(parts, "; ")
}

// NewValidationError builds a general (non-field) validation error.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: map[string][]string{NonFieldErrors: messages}}
}

// NewFieldError builds a validation error bound to one field.
func NewFieldError(field string, messages ...string) *ValidationError {
	return &ValidationError{Errors: map[string][]string{field: messages}}
}
