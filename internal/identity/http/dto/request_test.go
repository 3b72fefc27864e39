package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateEntryRequest_Validate(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		req := CreateEntryRequest{
			Attributes: map[string][]string{
				"username": {"jdoe"},
			},
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("Error_NilAttributes", func(t *testing.T) {
		req := CreateEntryRequest{}
		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "attributes is required")
	})

	t.Run("Error_EmptyAttributes", func(t *testing.T) {
		req := CreateEntryRequest{Attributes: map[string][]string{}}
		err := req.Validate()
		assert.Error(t, err)
	})
}

func TestUpdateEntryRequest_Validate(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		req := UpdateEntryRequest{
			Attributes: map[string][]string{
				"mail": {"new@example.com"},
			},
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("Success_EmptyValueList", func(t *testing.T) {
		// An empty value list is a valid change: it removes the attribute
		req := UpdateEntryRequest{
			Attributes: map[string][]string{
				"mail": {},
			},
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("Error_NilAttributes", func(t *testing.T) {
		req := UpdateEntryRequest{}
		err := req.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "attributes is required")
	})
}
