// Package usecase implements the identity directory business logic, gating
// every write through the attribute validation policy and hashing passwords
// before they reach storage.
package usecase

import (
	"context"

	"github.com/allisson/idp/internal/identity/domain"
)

// EntryRepository defines persistence operations for directory entries.
type EntryRepository interface {
	Create(ctx context.Context, entry *domain.Entry) error
	GetByUsername(ctx context.Context, username string) (*domain.Entry, error)
	Update(ctx context.Context, entry *domain.Entry) error
	Delete(ctx context.Context, username string) error
	List(ctx context.Context, offset, limit int) ([]*domain.Entry, error)
}

// AttributeValidator gates proposed attribute change-sets against the active
// validation policy.
type AttributeValidator interface {
	ValidateAttributes(attrs map[string][]string, op domain.OperationKind) error
}

// EventRecorder defines the outbox write used for directory change events.
type EventRecorder interface {
	Record(ctx context.Context, eventType string, payload any) error
}

// EntryUseCase defines the interface for directory entry operations.
type EntryUseCase interface {
	// Create validates the change-set and inserts a new entry. The username
	// attribute is required; the password attribute is hashed and dropped
	// from the stored attributes.
	Create(ctx context.Context, attrs map[string][]string) (*domain.Entry, error)

	// Get returns the entry stored under username.
	Get(ctx context.Context, username string) (*domain.Entry, error)

	// Update validates the change-set and merges it into the existing entry.
	// The username attribute, if present, must match the stored one.
	Update(ctx context.Context, username string, attrs map[string][]string) (*domain.Entry, error)

	// Delete removes the entry stored under username.
	Delete(ctx context.Context, username string) error

	// List returns entries ordered by username.
	List(ctx context.Context, offset, limit int) ([]*domain.Entry, error)
}
