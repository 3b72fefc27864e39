// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	issuanceDomain "github.com/allisson/idp/internal/issuance/domain"
)

// ListInstancesResponse represents a paginated list of instances in API responses.
type ListInstancesResponse struct {
	Data []InstanceResponse `json:"data"`
}

// MapInstancesToListResponse converts a slice of domain instances to a list response.
func MapInstancesToListResponse(instances []*issuanceDomain.Instance) ListInstancesResponse {
	data := make([]InstanceResponse, 0, len(instances))
	for _, instance := range instances {
		data = append(data, MapInstanceToResponse(instance))
	}

	return ListInstancesResponse{
		Data: data,
	}
}
