package validator

import "errors"

var (
	// ErrValidationFailed is returned when validation fails but no specific error is provided.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidPattern is returned when a rule is built with a pattern that does not compile.
	ErrInvalidPattern = errors.New("invalid pattern")
)
