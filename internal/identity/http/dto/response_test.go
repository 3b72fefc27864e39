package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityDomain "github.com/allisson/idp/internal/identity/domain"
)

func testEntry() *identityDomain.Entry {
	now := time.Now().UTC()
	return &identityDomain.Entry{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     "jdoe",
		PasswordHash: "pbkdf2-sha256$t=120000$c2FsdA$aGFzaA",
		Attributes: map[string][]string{
			"username": {"jdoe"},
			"mail":     {"jdoe@example.com"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMapEntryToResponse(t *testing.T) {
	t.Run("MapsAllFields", func(t *testing.T) {
		entry := testEntry()

		response := MapEntryToResponse(entry)

		assert.Equal(t, entry.ID.String(), response.ID)
		assert.Equal(t, "jdoe", response.Username)
		assert.Equal(t, entry.Attributes, response.Attributes)
		assert.Equal(t, entry.CreatedAt, response.CreatedAt)
		assert.Equal(t, entry.UpdatedAt, response.UpdatedAt)
	})

	t.Run("NeverSerializesPasswordHash", func(t *testing.T) {
		entry := testEntry()

		body, err := json.Marshal(MapEntryToResponse(entry))
		require.NoError(t, err)

		assert.NotContains(t, string(body), entry.PasswordHash)
		assert.NotContains(t, string(body), "password_hash")
	})

	t.Run("NilAttributesRenderAsEmptyObject", func(t *testing.T) {
		entry := testEntry()
		entry.Attributes = nil

		response := MapEntryToResponse(entry)

		body, err := json.Marshal(response)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"attributes":{}`)
	})
}

func TestMapEntriesToListResponse(t *testing.T) {
	t.Run("MultipleEntries", func(t *testing.T) {
		first := testEntry()
		second := testEntry()
		second.Username = "asmith"

		response := MapEntriesToListResponse([]*identityDomain.Entry{first, second})

		require.Len(t, response.Data, 2)
		assert.Equal(t, "jdoe", response.Data[0].Username)
		assert.Equal(t, "asmith", response.Data[1].Username)
	})

	t.Run("EmptySlice_RendersEmptyArray", func(t *testing.T) {
		response := MapEntriesToListResponse(nil)

		body, err := json.Marshal(response)
		require.NoError(t, err)
		assert.JSONEq(t, `{"data":[]}`, string(body))
	})
}
