// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	identityDomain "github.com/allisson/idp/internal/identity/domain"
)

// EntryResponse represents a directory entry in API responses. The password
// hash is deliberately absent: it never leaves the service.
type EntryResponse struct {
	ID         string              `json:"id"`
	Username   string              `json:"username"`
	Attributes map[string][]string `json:"attributes"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// MapEntryToResponse converts a domain entry to an API response.
func MapEntryToResponse(entry *identityDomain.Entry) EntryResponse {
	attrs := entry.Attributes
	if attrs == nil {
		attrs = map[string][]string{}
	}

	return EntryResponse{
		ID:         entry.ID.String(),
		Username:   entry.Username,
		Attributes: attrs,
		CreatedAt:  entry.CreatedAt,
		UpdatedAt:  entry.UpdatedAt,
	}
}
