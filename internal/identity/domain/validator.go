package domain

import (
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode/utf8"
)

// AttributeValidator gates proposed attribute change-sets against the active
// ValidationPolicy. The policy is swapped atomically by reference, so a
// concurrent validation observes either the fully-old or fully-new policy,
// never a partially-updated one.
type AttributeValidator struct {
	policy atomic.Pointer[ValidationPolicy]
	logger *slog.Logger
}

// NewAttributeValidator creates a validator with all rules disabled. Call
// Initialize to load a policy from raw configuration options.
func NewAttributeValidator(logger *slog.Logger) *AttributeValidator {
	v := &AttributeValidator{logger: logger}
	v.policy.Store(NewValidationPolicy(0, nil))
	return v
}

// Initialize parses raw configuration options into a fresh policy and swaps
// it in wholesale; prior state never survives, so absent or empty options
// leave every rule disabled. A malformed minimumPasswordLength disables the
// password rule with a warning instead of failing, because a misconfigured
// policy must not prevent startup. This is the only place a parse failure is
// swallowed.
func (v *AttributeValidator) Initialize(options map[string][]string) {
	minPasswordLength := 0
	if values := options[OptionMinimumPasswordLength]; len(values) > 0 {
		length, err := strconv.Atoi(values[0])
		if err != nil {
			if v.logger != nil {
				v.logger.Warn("invalid minimum password length option, password rule disabled",
					slog.String("option", OptionMinimumPasswordLength),
					slog.String("value", values[0]),
					slog.Any("error", err),
				)
			}
		} else {
			minPasswordLength = length
		}
	}

	var forbiddenChars []string
	if values := options[OptionUsernameInvalidChars]; len(values) > 0 && values[0] != "" {
		forbiddenChars = strings.Split(values[0], "|")
	}

	v.policy.Store(NewValidationPolicy(minPasswordLength, forbiddenChars))
}

// Policy returns the active validation policy.
func (v *AttributeValidator) Policy() *ValidationPolicy {
	return v.policy.Load()
}

// ValidateAttributes checks a proposed change-set for the given operation
// against the active policy: the password length rule first, then the
// username forbidden-substring rule. The change-set is read through a
// case-insensitive view and never mutated. A violation is returned as a typed
// error carrying the rule parameters; nil means the write may proceed.
func (v *AttributeValidator) ValidateAttributes(attrs map[string][]string, op OperationKind) error {
	policy := v.policy.Load()
	view := attributeView{attrs: attrs}

	if err := validatePassword(view, op, policy); err != nil {
		return err
	}
	return validateUsername(view, op, policy)
}

// validatePassword applies the minimum password length rule. A change-set
// without the password attribute only fails on create; edits that do not
// touch the password are exempt. A present attribute must carry a first value
// of at least the policy length regardless of operation.
func validatePassword(view attributeView, op OperationKind, policy *ValidationPolicy) error {
	minLength := policy.MinPasswordLength()
	if minLength == 0 {
		return nil
	}

	_, values, ok := view.lookup(AttrUserPassword)
	if !ok {
		if op == OperationCreate {
			return &PasswordLengthError{MinLength: minLength}
		}
		return nil
	}

	if len(values) == 0 || utf8.RuneCountInString(values[0]) < minLength {
		return &PasswordLengthError{MinLength: minLength}
	}
	return nil
}

// validateUsername applies the forbidden-substring rule to the username
// attribute. The rule only fires on create: edit change-sets carry only the
// attributes being modified and may legitimately omit the username. Substring
// matching is case-sensitive.
func validateUsername(view attributeView, op OperationKind, policy *ValidationPolicy) error {
	forbidden := policy.UsernameForbiddenChars()
	if len(forbidden) == 0 || op != OperationCreate {
		return nil
	}

	key, values, ok := view.lookup(AttrUsername)
	if !ok || len(values) == 0 {
		return nil
	}

	username := values[0]
	for _, chars := range forbidden {
		if strings.Contains(username, chars) {
			return &ForbiddenCharError{
				Attribute: key,
				Value:     username,
				Forbidden: forbidden,
			}
		}
	}
	return nil
}

// LookupAttribute resolves name in attrs case-insensitively, preferring an
// exact match, and returns the original key alongside the values. Directory
// attribute names carry no case significance, so every consumer of a
// change-set resolves them through this.
func LookupAttribute(attrs map[string][]string, name string) (key string, values []string, ok bool) {
	return attributeView{attrs: attrs}.lookup(name)
}

// attributeView is a read-through adapter that resolves attribute names
// case-insensitively without copying or mutating the underlying change-set.
type attributeView struct {
	attrs map[string][]string
}

// lookup returns the values stored under any casing of name, along with the
// caller's original key so error values can preserve it. An exact match is
// preferred over a scan.
func (view attributeView) lookup(name string) (key string, values []string, ok bool) {
	if values, ok := view.attrs[name]; ok {
		return name, values, true
	}
	for key, values := range view.attrs {
		if strings.EqualFold(key, name) {
			return key, values, true
		}
	}
	return "", nil, false
}
