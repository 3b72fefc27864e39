// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"
)

// CreateEntryRequest is the request body for directory entry creation. The
// change-set is deliberately schema-free: the attribute validation policy,
// not the API surface, decides what a write may carry.
type CreateEntryRequest struct {
	Attributes map[string][]string `json:"attributes"`
}

// Validate checks if the create entry request is valid.
func (r *CreateEntryRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Attributes,
			validation.Required.Error("attributes is required"),
		),
	)
}

// UpdateEntryRequest is the request body for directory entry edits. Only the
// attributes being changed are carried; an empty value list removes the
// attribute.
type UpdateEntryRequest struct {
	Attributes map[string][]string `json:"attributes"`
}

// Validate checks if the update entry request is valid.
func (r *UpdateEntryRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Attributes,
			validation.Required.Error("attributes is required"),
		),
	)
}
