package domain

import "slices"

// ValidationPolicy holds the attribute rules applied to directory writes.
// A policy is immutable once built; AttributeValidator replaces it wholesale
// on re-initialization instead of mutating it in place.
type ValidationPolicy struct {
	minPasswordLength      int
	usernameForbiddenChars []string
}

// NewValidationPolicy builds a policy from already-parsed rule parameters.
// Negative lengths clamp to 0 (rule disabled) and empty forbidden substrings
// are dropped, since an empty substring would match every username.
func NewValidationPolicy(minPasswordLength int, usernameForbiddenChars []string) *ValidationPolicy {
	if minPasswordLength < 0 {
		minPasswordLength = 0
	}

	var forbidden []string
	for _, chars := range usernameForbiddenChars {
		if chars != "" {
			forbidden = append(forbidden, chars)
		}
	}

	return &ValidationPolicy{
		minPasswordLength:      minPasswordLength,
		usernameForbiddenChars: forbidden,
	}
}

// MinPasswordLength returns the minimum accepted password length; 0 means the
// password rule is disabled.
func (p *ValidationPolicy) MinPasswordLength() int { return p.minPasswordLength }

// UsernameForbiddenChars returns a copy of the forbidden username substrings;
// an empty list means the username rule is disabled.
func (p *ValidationPolicy) UsernameForbiddenChars() []string {
	return slices.Clone(p.usernameForbiddenChars)
}
