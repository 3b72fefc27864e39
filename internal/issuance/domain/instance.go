package domain

import (
	"time"

	"github.com/google/uuid"
)

// Instance is a named identity provider deployment that owns at most one
// published token issuance configuration.
type Instance struct {
	// ID is the unique identifier for this instance.
	ID uuid.UUID
	// Name is the caller-facing instance identifier (e.g., "acme-production").
	Name string
	// CreatedAt is the UTC timestamp when the instance was first published to.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last configuration write.
	UpdatedAt time.Time
}
