package validator

import (
	"errors"
	"fmt"
	"strings"
)

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ValidationError describes a single failed constraint.
// Value holds the offending input when one is available.
type ValidationError struct {
	Field             string
	Message           string
	Value             any
	TranslationKey    string
	TranslationValues map[string]any
}

// ValidationErrors represents a collection of validation errors.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (ve *ValidationErrors) Add(err ValidationError) {
	*ve = append(*ve, err)
}

// AddField is a shortcut for errors that do not come from a Rule,
// e.g. a value that could not be coerced to the declared type.
func (ve *ValidationErrors) AddField(field, message string, value any) {
	*ve = append(*ve, ValidationError{
		Field:          field,
		Message:        message,
		Value:          value,
		TranslationKey: "validation.invalid",
		TranslationValues: map[string]any{
			"field": field,
		},
	})
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// OrNil returns nil for an empty collection so callers can return it as an error directly.
func (ve ValidationErrors) OrNil() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}

// Rule represents a single validation rule.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply executes multiple validation rules and returns any validation errors.
func Apply(rules ...Rule) error {
	var errs ValidationErrors

	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Error)
		}
	}

	return errs.OrNil()
}

// When returns rules only if cond holds. Used for optional fields:
//
//	validator.When(req.Description != nil, validator.MaxLen("body.description", *req.Description, 300))...
func When(cond bool, rules ...Rule) []Rule {
	if !cond {
		return nil
	}
	return rules
}

// Path joins field path segments with dots, skipping empty segments.
func Path(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ".")
}

// Merge combines validation errors from several errors into one collection.
// It returns the first non-validation error unchanged if one is found,
// and nil when there is nothing to report.
func Merge(errs ...error) error {
	var merged ValidationErrors
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		merged = append(merged, verrs...)
	}
	return merged.OrNil()
}

// ExtractValidationErrors extracts ValidationErrors from an error.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var validationErr ValidationErrors
	if errors.As(err, &validationErr) {
		return validationErr
	}

	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var validationErr ValidationErrors
	return errors.As(err, &validationErr)
}
