package domain

import (
	"fmt"

	"github.com/allisson/idp/internal/errors"
)

// Identity directory errors.
var (
	// ErrPolicyViolation indicates an attribute change-set was rejected by the
	// active validation policy. Typed violations unwrap to this error, so
	// callers can errors.Is for coarse handling or errors.As for the rule
	// parameters.
	ErrPolicyViolation = errors.Wrap(errors.ErrInvalidInput, "attribute policy violation")

	// ErrEntryNotFound indicates the requested directory entry does not exist.
	ErrEntryNotFound = errors.Wrap(errors.ErrNotFound, "identity entry not found")

	// ErrEntryAlreadyExists indicates an entry with the same username already exists.
	ErrEntryAlreadyExists = errors.Wrap(errors.ErrConflict, "identity entry already exists")

	// ErrUsernameRequired indicates a create change-set without a username attribute.
	ErrUsernameRequired = errors.Wrap(errors.ErrInvalidInput, "username attribute is required")

	// ErrUsernameImmutable indicates an edit change-set that tries to change the
	// entry's username. Usernames are the directory key and never change.
	ErrUsernameImmutable = errors.Wrap(errors.ErrInvalidInput, "username cannot be changed")
)

// PasswordLengthError reports a change-set whose password attribute is missing
// or shorter than the policy minimum. MinLength carries the configured rule
// parameter so callers can format their own message.
type PasswordLengthError struct {
	MinLength int
}

func (e *PasswordLengthError) Error() string {
	return fmt.Sprintf("password must be at least %d characters long", e.MinLength)
}

func (e *PasswordLengthError) Unwrap() error { return ErrPolicyViolation }

// ForbiddenCharError reports an attribute value containing a forbidden
// substring. Attribute keeps the caller's original key casing, Value is the
// offending value and Forbidden is the full configured substring list.
type ForbiddenCharError struct {
	Attribute string
	Value     string
	Forbidden []string
}

func (e *ForbiddenCharError) Error() string {
	return fmt.Sprintf(
		"attribute %s has invalid value %q: must not contain any of %v",
		e.Attribute, e.Value, e.Forbidden,
	)
}

func (e *ForbiddenCharError) Unwrap() error { return ErrPolicyViolation }
