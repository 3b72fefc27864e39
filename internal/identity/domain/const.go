// Package domain defines the identity directory model: directory entries, the
// attribute validation policy, and the validator that gates every directory
// write against it.
package domain

// OperationKind identifies the directory operation a change-set belongs to.
// Only create and edit operations carry attribute change-sets, but the full
// set is modeled so callers can pass the operation through unchanged.
type OperationKind string

const (
	OperationCreate OperationKind = "create"
	OperationEdit   OperationKind = "edit"
	OperationRead   OperationKind = "read"
	OperationDelete OperationKind = "delete"
)

// Option names recognized by AttributeValidator.Initialize.
const (
	// OptionMinimumPasswordLength configures the password length rule.
	// The first value is parsed as an integer; 0 or malformed disables the rule.
	OptionMinimumPasswordLength = "minimumPasswordLength"

	// OptionUsernameInvalidChars configures the forbidden username substrings
	// as a single pipe-delimited value.
	OptionUsernameInvalidChars = "usernameInvalidChars"
)

// Attribute names inspected by the validator. Change-set keys are matched
// against these case-insensitively.
const (
	AttrUserPassword = "userpassword"
	AttrUsername     = "username"
)
