package handler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrymomot/apitour/pkg/validator"
)

// ValidationError is the client-facing form of field errors: field key to messages.
// It's based on url.Values to leverage built-in string slice handling.
type ValidationError url.Values

// Error implements the error interface.
func (e ValidationError) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	var parts []string
	for field, messages := range e {
		if len(messages) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", field, messages[0]))
		}
	}

	return fmt.Sprintf("validation failed: %s", strings.Join(parts, ", "))
}

// NewValidationError creates a validation error, optionally pre-filled from
// validator.ValidationErrors.
func NewValidationError(errs ...validator.ValidationError) ValidationError {
	e := make(ValidationError, len(errs))
	for _, err := range errs {
		e.Add(err.Field, err.Message)
	}
	return e
}

// Add adds an error message for a field.
func (e ValidationError) Add(field, message string) {
	url.Values(e).Add(field, message)
}

// Get returns the first error message for a field.
func (e ValidationError) Get(field string) string {
	return url.Values(e).Get(field)
}

// Has checks if a field has any errors.
func (e ValidationError) Has(field string) bool {
	return len(e[field]) > 0
}

// IsEmpty returns true if there are no validation errors.
func (e ValidationError) IsEmpty() bool {
	return len(e) == 0
}
