package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// ValidatePositive checks that a numeric setting is greater than zero
func ValidatePositive(fieldName string, value int) error {
	if value <= 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be positive, got: %d", formatFieldName(fieldName), value),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "notePath" -> "note path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"notePath":      "note path",
		"vaultPath":     "vault path",
		"maxSegments":   "max segments",
		"noteExtension": "note extension",
		"provider":      "provider",
		"model":         "model",
		"maxTokens":     "max tokens",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	// Fallback: just return the field name as-is
	return fieldName
}
