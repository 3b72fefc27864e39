// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	issuanceDomain "github.com/allisson/idp/internal/issuance/domain"
)

// passwordPlaceholder replaces password material in API responses.
const passwordPlaceholder = "[REDACTED]"

// InstanceResponse represents an identity provider instance in API responses.
type InstanceResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConfigResponse represents a published token issuance configuration in API
// responses. The document is rendered with password fields redacted: the API
// never returns keystore or signing key passwords, only whether they are set.
type ConfigResponse struct {
	Instance InstanceResponse         `json:"instance"`
	Config   *issuanceDomain.Document `json:"config"`
}

// MapInstanceToResponse converts a domain instance to an API response.
func MapInstanceToResponse(instance *issuanceDomain.Instance) InstanceResponse {
	return InstanceResponse{
		ID:        instance.ID.String(),
		Name:      instance.Name,
		CreatedAt: instance.CreatedAt,
		UpdatedAt: instance.UpdatedAt,
	}
}

// MapConfigToResponse converts a configuration and its owning instance to an
// API response with password material redacted.
func MapConfigToResponse(
	instance *issuanceDomain.Instance,
	config *issuanceDomain.Config,
) ConfigResponse {
	doc := config.Document()
	if doc.KeystorePassword != "" {
		doc.KeystorePassword = passwordPlaceholder
	}
	if doc.SignatureKeyPassword != "" {
		doc.SignatureKeyPassword = passwordPlaceholder
	}

	return ConfigResponse{
		Instance: MapInstanceToResponse(instance),
		Config:   doc,
	}
}
