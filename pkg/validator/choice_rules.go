package validator

import (
	"fmt"
	"slices"
)

// InList validates that value is one of allowed.
func InList[T comparable](field string, value T, allowed []T) Rule {
	return Rule{
		Check: func() bool {
			return slices.Contains(allowed, value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be one of: %v", allowed),
			Value:          value,
			TranslationKey: "validation.in_list",
			TranslationValues: map[string]any{
				"field":          field,
				"allowed_values": allowed,
			},
		},
	}
}

func NotInList[T comparable](field string, value T, forbidden []T) Rule {
	return Rule{
		Check: func() bool {
			return !slices.Contains(forbidden, value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must not be one of: %v", forbidden),
			Value:          value,
			TranslationKey: "validation.not_in_list",
			TranslationValues: map[string]any{
				"field":            field,
				"forbidden_values": forbidden,
			},
		},
	}
}
