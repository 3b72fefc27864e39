package domain

import (
	"github.com/allisson/idp/internal/errors"
)

// Issuance configuration errors.
var (
	// ErrInvalidConfig indicates a configuration violates a build invariant.
	ErrInvalidConfig = errors.Wrap(errors.ErrInvalidInput, "invalid issuance config")

	// ErrMarshal indicates a configuration record could not be marshalled or
	// unmarshalled. A persisted record failing with this error is terminal and
	// requires operator intervention.
	ErrMarshal = errors.New("issuance config marshalling failed")

	// ErrConfigAbsent indicates the instance exists but has no published
	// issuance configuration.
	ErrConfigAbsent = errors.Wrap(errors.ErrNotFound, "issuance config absent")

	// ErrInstanceNotFound indicates the named deployment instance does not exist.
	ErrInstanceNotFound = errors.Wrap(errors.ErrNotFound, "instance not found")
)
