package validation

import (
	"errors"
	"strings"
)

// ValidateName validates a signup's full name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if len(trimmed) > 100 {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}

// ValidateRequired returns an error naming the first empty field.
// fields alternates name, value.
func ValidateRequired(fields ...string) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			return errors.New(fields[i] + " is required")
		}
	}
	return nil
}
