// utils/valid.go
package utils

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonPhoneRegex = regexp.MustCompile(`[^\d+]`)
)

// SanitizeInput sanitizes user input to prevent XSS and injection attacks
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = html.EscapeString(input)

	// Remove control characters
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	return input
}

// SanitizeEmail sanitizes and validates an email address
func SanitizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	if !emailRegex.MatchString(email) {
		return "", errors.New("invalid email format")
	}

	return email, nil
}

// SanitizePhone strips separators from a phone number and checks its length.
// The number is kept as submitted otherwise: it is the account's lookup key,
// so no prefix normalization is applied.
func SanitizePhone(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", errors.New("phone number is required")
	}

	phone = nonPhoneRegex.ReplaceAllString(phone, "")

	if len(phone) < 8 || len(phone) > 15 {
		return "", errors.New("invalid phone number length")
	}

	return phone, nil
}
