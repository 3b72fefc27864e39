// Package domain defines the core outbox domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the issuance and identity features.
const (
	EventTypeConfigPublished = "issuance_config.published"
	EventTypeConfigCleared   = "issuance_config.cleared"
	EventTypeConfigDeleted   = "issuance_config.deleted"
	EventTypeEntryCreated    = "identity.created"
	EventTypeEntryUpdated    = "identity.updated"
	EventTypeEntryDeleted    = "identity.deleted"
)

// OutboxEventStatus represents the status of an outbox event
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusProcessed OutboxEventStatus = "processed"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)

// OutboxEvent represents an event in the transactional outbox pattern.
// Signature holds the HMAC-SHA256 over the event's canonical encoding;
// it is empty when event signing is disabled.
type OutboxEvent struct {
	ID          uuid.UUID
	EventType   string
	Payload     string
	Signature   []byte
	Status      OutboxEventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
