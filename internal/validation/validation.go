package validation

import (
	"html"
	"regexp"
	"strings"

	"hospital-records-server/internal/models"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// Username length bounds. The lower bound keeps usernames readable, the
// upper bound matches the column size headroom in the users table.
const (
	UsernameMinLen = 3
	UsernameMaxLen = 30
)

// SanitizeString trims surrounding whitespace and HTML-escapes the reserved
// characters (< > & " ') so the value is safe to render. Input is first
// unescaped, which makes repeated sanitization stable: already-escaped text
// comes out unchanged instead of double-escaped.
func SanitizeString(value string) string {
	return html.EscapeString(html.UnescapeString(strings.TrimSpace(value)))
}

// ValidateEmail sanitizes and validates an email address, returning the
// sanitized value or an InvalidFormat rejection.
func ValidateEmail(value string) (string, error) {
	email := SanitizeString(value)
	if !emailPattern.MatchString(email) {
		return "", &FieldError{Field: "email", Kind: KindInvalidFormat, Message: "invalid email format"}
	}
	return email, nil
}

// ValidateUsername sanitizes and validates a username. Only alphanumeric
// characters, underscores and hyphens are allowed, between UsernameMinLen
// and UsernameMaxLen characters.
func ValidateUsername(value string) (string, error) {
	username := SanitizeString(value)
	if len(username) < UsernameMinLen || len(username) > UsernameMaxLen {
		return "", &FieldError{
			Field:   "username",
			Kind:    KindInvalidFormat,
			Message: "username must be 3-30 characters (alphanumeric, _, -)",
		}
	}
	if !usernamePattern.MatchString(username) {
		return "", &FieldError{
			Field:   "username",
			Kind:    KindInvalidFormat,
			Message: "username may only contain letters, digits, underscores and hyphens",
		}
	}
	return username, nil
}

// ValidatePasswordStrength checks the password policy and returns a
// WeakPassword rejection naming the first unmet rule. The policy itself
// lives with the credential model so User.SetPassword enforces the same
// rules; this wrapper translates its verdict into the field-error taxonomy.
func ValidatePasswordStrength(password string) error {
	if err := models.CheckPasswordStrength(password); err != nil {
		return &FieldError{Field: "password", Kind: KindWeakPassword, Message: err.Error()}
	}
	return nil
}
