package validator

import (
	"fmt"
	"regexp"
)

// Matches validates value against a precompiled pattern.
func Matches(field, value string, re *regexp.Regexp) Rule {
	var pattern string
	if re != nil {
		pattern = re.String()
	}
	return Rule{
		Check: func() bool {
			return re != nil && re.MatchString(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must match pattern %q", pattern),
			Value:          value,
			TranslationKey: "validation.regex_pattern",
			TranslationValues: map[string]any{
				"field":   field,
				"pattern": pattern,
			},
		},
	}
}

// MatchesRegex compiles pattern on each call; cache a *regexp.Regexp and use Matches on hot paths.
// An invalid pattern yields a rule that always fails.
func MatchesRegex(field, value, pattern string) Rule {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{
			Check: func() bool { return false },
			Error: ValidationError{
				Field:          field,
				Message:        fmt.Sprintf("%v: %q", ErrInvalidPattern, pattern),
				Value:          value,
				TranslationKey: "validation.regex_invalid",
				TranslationValues: map[string]any{
					"field":   field,
					"pattern": pattern,
				},
			},
		}
	}
	return Matches(field, value, re)
}
