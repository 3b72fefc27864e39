// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	identityDomain "github.com/allisson/idp/internal/identity/domain"
)

// ListEntriesResponse represents a paginated list of directory entries in API responses.
type ListEntriesResponse struct {
	Data []EntryResponse `json:"data"`
}

// MapEntriesToListResponse converts a slice of domain entries to a list response.
func MapEntriesToListResponse(entries []*identityDomain.Entry) ListEntriesResponse {
	data := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		data = append(data, MapEntryToResponse(entry))
	}

	return ListEntriesResponse{
		Data: data,
	}
}
