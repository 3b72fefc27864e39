package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a directory entry owned by the identity repository. Attributes
// carries every stored attribute except the password, which is never stored
// raw; only its hash is kept.
type Entry struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Attributes   map[string][]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
