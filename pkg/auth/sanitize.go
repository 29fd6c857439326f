package auth

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/tendant/catfeed/pkg/domain"
)

// usernamePattern allows 3-30 ASCII letters, digits, underscores and hyphens,
// starting with a letter or digit.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{2,29}$`)

// ValidateUsername checks the username format used for admin accounts.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return domain.ErrInvalidUsername
	}
	return nil
}

// NormalizeUsername trims surrounding whitespace from a submitted username.
// Usernames are case-sensitive, so case is left alone.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// CleanText trims a plain-text field and drops control characters without
// escaping it. Use it for values rendered through html/template or CSV.
func CleanText(s string) string {
	return strings.TrimSpace(removeControlChars(s))
}

// ValidateStringLength validates that a string is within the specified length constraints.
func ValidateStringLength(field, value string, min, max int) error {
	length := len([]rune(value))

	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters long", field, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters long", field, max)
	}

	return nil
}

// removeControlChars removes control characters except newline and tab.
func removeControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
