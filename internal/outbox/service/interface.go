// Package service provides technical services for the transactional outbox.
//
// The event signer makes the outbox tamper-evident: every event row carries
// an HMAC over its canonical encoding, computed with a key derived from the
// configured signing secret.
package service

import (
	"github.com/allisson/idp/internal/outbox/domain"
)

// EventSigner defines signature generation and verification for outbox events.
// Implementations must produce deterministic signatures so that a stored event
// can be re-verified at any later point.
type EventSigner interface {
	// Sign computes the signature over the event's canonical encoding.
	// The event's ID, EventType, Payload and CreatedAt must be final before
	// signing; changing any of them invalidates the signature.
	Sign(event *domain.OutboxEvent) ([]byte, error)

	// Verify checks the event's stored signature against its content.
	// Returns nil if valid, domain.ErrSignatureInvalid if tampered.
	Verify(event *domain.OutboxEvent) error
}
