package domain

import (
	"github.com/allisson/idp/internal/errors"
)

// Outbox errors.
var (
	// ErrSignatureInvalid indicates an event's stored signature does not match
	// its content, meaning the row was tampered with or signed under a
	// different key. It wraps no HTTP-mapped sentinel: signature failures
	// surface through the relay loop and the verify-events command only.
	ErrSignatureInvalid = errors.New("outbox event signature is invalid")
)
