// Package usecase implements the issuance configuration business logic,
// orchestrating the builder, the sensitive-field cipher, the record cache and
// the flat attribute-map store.
package usecase

import (
	"context"

	"github.com/allisson/idp/internal/issuance/domain"
)

// ConfigRepository defines persistence operations for flat configuration
// records and their owning instances.
type ConfigRepository interface {
	Save(ctx context.Context, instanceName string, flat map[string][]string) (*domain.Instance, error)
	Load(ctx context.Context, instanceName string) (map[string][]string, error)
	GetInstance(ctx context.Context, instanceName string) (*domain.Instance, error)
	Delete(ctx context.Context, instanceName string) error
	List(ctx context.Context, offset, limit int) ([]*domain.Instance, error)
}

// EventRecorder defines the outbox write used for configuration change events.
type EventRecorder interface {
	Record(ctx context.Context, eventType string, payload any) error
}

// ConfigUseCase defines the interface for issuance configuration operations.
type ConfigUseCase interface {
	// Publish validates the document through the builder and stores the
	// resulting configuration as the instance's flat record.
	Publish(ctx context.Context, instanceName string, doc *domain.Document) (*domain.Config, *domain.Instance, error)

	// Get loads the instance's configuration. Returns ErrInstanceNotFound for
	// unknown instances and ErrConfigAbsent when the stored record is empty.
	Get(ctx context.Context, instanceName string) (*domain.Config, *domain.Instance, error)

	// Delete removes the instance and its record entirely.
	Delete(ctx context.Context, instanceName string) error

	// Clear overwrites the instance's record with the empty flat record,
	// keeping the instance itself.
	Clear(ctx context.Context, instanceName string) error

	// List returns instances ordered by name.
	List(ctx context.Context, offset, limit int) ([]*domain.Instance, error)
}
