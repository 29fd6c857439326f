package auth

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tendant/catfeed/internal/config"
	"github.com/tendant/catfeed/pkg/domain"
)

// DefaultMinPasswordLength is the shortest password accepted when nothing is configured.
const DefaultMinPasswordLength = 8

// PasswordPolicy defines password complexity requirements.
type PasswordPolicy struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumber    bool
	RequireSpecial   bool
}

// DefaultPasswordPolicy only enforces the minimum length.
func DefaultPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{MinLength: DefaultMinPasswordLength}
}

// NewPasswordPolicy creates a PasswordPolicy from config.
func NewPasswordPolicy(cfg config.PasswordPolicyConfig) *PasswordPolicy {
	return &PasswordPolicy{
		MinLength:        cfg.MinLength,
		RequireUppercase: cfg.RequireUppercase,
		RequireLowercase: cfg.RequireLowercase,
		RequireNumber:    cfg.RequireNumber,
		RequireSpecial:   cfg.RequireSpecial,
	}
}

// ValidatePassword checks a password against the policy.
// Failures wrap domain.ErrWeakPassword.
func (p *PasswordPolicy) ValidatePassword(password string) error {
	if p.MinLength > 0 && len([]rune(password)) < p.MinLength {
		return fmt.Errorf("%w: must be at least %d characters long", domain.ErrWeakPassword, p.MinLength)
	}
	if p.RequireUppercase && !containsRune(password, unicode.IsUpper) {
		return fmt.Errorf("%w: must contain an uppercase letter", domain.ErrWeakPassword)
	}
	if p.RequireLowercase && !containsRune(password, unicode.IsLower) {
		return fmt.Errorf("%w: must contain a lowercase letter", domain.ErrWeakPassword)
	}
	if p.RequireNumber && !containsRune(password, unicode.IsDigit) {
		return fmt.Errorf("%w: must contain a number", domain.ErrWeakPassword)
	}
	if p.RequireSpecial && !containsRune(password, isSpecial) {
		return fmt.Errorf("%w: must contain a special character", domain.ErrWeakPassword)
	}
	return nil
}

// Requirements describes the policy for the change-password page.
func (p *PasswordPolicy) Requirements() string {
	if !p.HasRequirements() {
		return "No password requirements"
	}

	var requirements []string
	if p.MinLength > 0 {
		requirements = append(requirements, fmt.Sprintf("at least %d characters", p.MinLength))
	}
	if p.RequireUppercase {
		requirements = append(requirements, "one uppercase letter")
	}
	if p.RequireLowercase {
		requirements = append(requirements, "one lowercase letter")
	}
	if p.RequireNumber {
		requirements = append(requirements, "one number")
	}
	if p.RequireSpecial {
		requirements = append(requirements, "one special character")
	}

	return "Password must contain " + strings.Join(requirements, ", ")
}

// HasRequirements returns true if the policy has any requirements.
func (p *PasswordPolicy) HasRequirements() bool {
	return p.MinLength > 0 || p.RequireUppercase || p.RequireLowercase || p.RequireNumber || p.RequireSpecial
}

func containsRune(s string, match func(rune) bool) bool {
	return strings.IndexFunc(s, match) >= 0
}

func isSpecial(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
}
