package utils

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// GenerateUUID generates a UUID v4 string.
func GenerateUUID() string {
	return uuid.New().String()
}

// ParseInt safely converts string to int with a default value.
func ParseInt(s string, defaultVal int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultVal
	}
	return v
}

// IsDigits reports whether s is non-empty and made only of digits.
// Unlike a numeric parse, signs, spaces and separators are rejected.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// MaskSecret reports only whether a secret is set and its length.
func MaskSecret(s string) string {
	if s == "" {
		return "<unset>"
	}
	return "<set len=" + strconv.Itoa(len(s)) + ">"
}
