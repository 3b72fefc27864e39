// Package integration provides comprehensive end-to-end integration tests for the identity provider API.
// Tests all API endpoints against both PostgreSQL and MySQL databases.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/idp/internal/app"
	"github.com/allisson/idp/internal/config"
	"github.com/allisson/idp/internal/httputil"
	identityDTO "github.com/allisson/idp/internal/identity/http/dto"
	issuanceDomain "github.com/allisson/idp/internal/issuance/domain"
	issuanceDTO "github.com/allisson/idp/internal/issuance/http/dto"
	"github.com/allisson/idp/internal/testutil"
)

// testKeeperURI is a local base64key keeper so field encryption is exercised
// end-to-end without external KMS infrastructure.
const testKeeperURI = "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4="

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	dbDriver  string
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Setup database
	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	// Create configuration
	cfg := &config.Config{
		DBDriver:                 dbDriver,
		DBConnectionString:       dsn,
		DBMaxOpenConnections:     10,
		DBMaxIdleConnections:     5,
		DBConnMaxLifetime:        time.Hour,
		ServerHost:               "localhost",
		ServerPort:               8080,
		LogLevel:                 "error",
		IDPMinimumPasswordLength: "8",
		IDPUsernameInvalidChars:  "/|\\|*",
		KeeperURI:                testKeeperURI,
		OutboxSigningKey:         "integration-test-signing-key",
		WorkerInterval:           time.Second,
		WorkerBatchSize:          50,
		WorkerMaxRetries:         3,
	}

	// Create DI container
	container := app.NewContainer(cfg)

	// Setup HTTP server
	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	// Get the handler from the server
	// The SetupRouter has already been called by container.HTTPServer()
	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil after SetupRouter")

	// Create test server with the handler
	testServer := httptest.NewServer(handler)

	t.Logf("Integration test setup complete for %s", dbDriver)

	return &integrationTestContext{
		container: container,
		db:        db,
		server:    testServer,
		dbDriver:  dbDriver,
	}
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.container != nil {
		err := ctx.container.Shutdown(context.Background())
		if err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}

	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}

	t.Logf("Integration test teardown complete for %s", ctx.dbDriver)
}

// TestIntegration_Health_BasicChecks validates infrastructure health and readiness endpoints.
// Tests health check and database connectivity verification against both PostgreSQL and MySQL.
func TestIntegration_Health_BasicChecks(t *testing.T) {
	// Skip if short mode (integration tests can be slow)
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testCases := []struct {
		name     string
		dbDriver string
	}{
		{"PostgreSQL", "postgres"},
		{"MySQL", "mysql"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Setup
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			// [1/2] Test GET /health - Health check endpoint
			t.Run("01_HealthCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "healthy", response["status"])
			})

			// [2/2] Test GET /ready - Readiness check endpoint with component detail
			t.Run("02_ReadinessCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/ready", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]interface{}
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "ready", response["status"])

				components, ok := response["components"].(map[string]interface{})
				require.True(t, ok, "components should be an object")
				assert.Equal(t, "ok", components["database"])
			})

			t.Logf("All 2 health endpoint tests passed for %s", tc.dbDriver)
		})
	}
}

// TestIntegration_IssuanceConfig_CompleteFlow tests the issuance configuration complete lifecycle.
// Validates publish, retrieval with password redaction, replacement, instance listing,
// builder invariant enforcement, clearing, and deletion.
func TestIntegration_IssuanceConfig_CompleteFlow(t *testing.T) {
	// Skip if short mode (integration tests can be slow)
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testCases := []struct {
		name     string
		dbDriver string
	}{
		{"PostgreSQL", "postgres"},
		{"MySQL", "mysql"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Setup
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			// Test data shared across the flow
			var (
				instanceName = "integration-test-idp"
				configPath   = "/v1/instances/" + instanceName + "/config"
			)

			// [1/10] Test PUT /v1/instances/:instance/config - Publish configuration
			t.Run("01_PublishConfig", func(t *testing.T) {
				requestBody := issuanceDTO.PublishConfigRequest{
					IssuerName:           "https://idp.example.com/saml2",
					SPEntityID:           "https://sp.example.com/shibboleth",
					SPACSURL:             "https://sp.example.com/Shibboleth.sso/SAML2/POST",
					AttributeMap:         map[string]string{"mail": "urn:oid:0.9.2342.19200300.100.1.3"},
					SignAssertion:        "true",
					KeystoreFileName:     "/etc/idp/keystore.jks",
					KeystorePassword:     "keystore-secret",
					SignatureKeyAlias:    "idp-signing",
					SignatureKeyPassword: "signature-secret",
				}

				resp, body := ctx.makeRequest(t, http.MethodPut, configPath, requestBody)
				assert.Equal(t, http.StatusCreated, resp.StatusCode)

				var response issuanceDTO.ConfigResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.NotEmpty(t, response.Instance.ID)
				assert.Equal(t, instanceName, response.Instance.Name)
				assert.False(t, response.Instance.CreatedAt.IsZero())

				require.NotNil(t, response.Config)
				assert.Equal(t, "https://idp.example.com/saml2", response.Config.IssuerName)
				assert.Equal(t, "https://sp.example.com/shibboleth", response.Config.SPEntityID)
				assert.Equal(t, issuanceDomain.DefaultNameIDFormat, response.Config.NameIDFormat,
					"unset name ID format should get the default")
				assert.Equal(t, "600", response.Config.TokenLifetimeSeconds,
					"unset token lifetime should get the default")
				assert.Equal(t, "true", response.Config.SignAssertion)
				assert.Equal(
					t,
					map[string]string{"mail": "urn:oid:0.9.2342.19200300.100.1.3"},
					response.Config.AttributeMap,
				)

				// Password material must never appear in responses
				assert.Equal(t, "[REDACTED]", response.Config.KeystorePassword)
				assert.Equal(t, "[REDACTED]", response.Config.SignatureKeyPassword)
			})

			// [2/10] Test GET /v1/instances/:instance/config - Read configuration
			t.Run("02_GetConfig", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, configPath, nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response issuanceDTO.ConfigResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, instanceName, response.Instance.Name)

				require.NotNil(t, response.Config)
				assert.Equal(t, "https://idp.example.com/saml2", response.Config.IssuerName)
				assert.Equal(t, "true", response.Config.SignAssertion)
				assert.Equal(t, "/etc/idp/keystore.jks", response.Config.KeystoreFileName)
				assert.Equal(t, "[REDACTED]", response.Config.KeystorePassword)
				assert.Equal(t, "[REDACTED]", response.Config.SignatureKeyPassword)
			})

			// [3/10] Test PUT /v1/instances/:instance/config - Replace configuration
			t.Run("03_PublishUpdatedConfig", func(t *testing.T) {
				requestBody := issuanceDTO.PublishConfigRequest{
					IssuerName:           "https://idp.example.com/saml2",
					SPEntityID:           "https://sp.example.com/shibboleth",
					SPACSURL:             "https://sp.example.com/Shibboleth.sso/SAML2/POST",
					NameIDFormat:         "urn:oasis:names:tc:SAML:2.0:nameid-format:persistent",
					TokenLifetimeSeconds: "3600",
					SignAssertion:        "true",
					KeystoreFileName:     "/etc/idp/keystore.jks",
					KeystorePassword:     "keystore-secret",
					SignatureKeyAlias:    "idp-signing",
					SignatureKeyPassword: "signature-secret",
				}

				resp, body := ctx.makeRequest(t, http.MethodPut, configPath, requestBody)
				assert.Equal(t, http.StatusCreated, resp.StatusCode)

				var response issuanceDTO.ConfigResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				require.NotNil(t, response.Config)
				assert.Equal(
					t,
					"urn:oasis:names:tc:SAML:2.0:nameid-format:persistent",
					response.Config.NameIDFormat,
				)
				assert.Equal(t, "3600", response.Config.TokenLifetimeSeconds)
			})

			// [4/10] Test GET /v1/instances/:instance/config - Read replaced configuration
			t.Run("04_GetUpdatedConfig", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, configPath, nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response issuanceDTO.ConfigResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				require.NotNil(t, response.Config)
				assert.Equal(t, "3600", response.Config.TokenLifetimeSeconds,
					"replacement should persist, not merge")
				assert.Equal(t, "[REDACTED]", response.Config.KeystorePassword)
			})

			// [5/10] Test GET /v1/instances - List instances
			t.Run("05_ListInstances", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/instances", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response issuanceDTO.ListInstancesResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				require.Len(t, response.Data, 1)
				assert.Equal(t, instanceName, response.Data[0].Name)
			})

			// [6/10] Test PUT /v1/instances/:instance/config - Reject incomplete signing setup
			t.Run("06_RejectIncompleteSigningConfig", func(t *testing.T) {
				requestBody := issuanceDTO.PublishConfigRequest{
					IssuerName:    "https://idp.example.com/saml2",
					SPEntityID:    "https://sp.example.com/shibboleth",
					SignAssertion: "true",
				}

				resp, body := ctx.makeRequest(t, http.MethodPut, configPath, requestBody)
				assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

				var response httputil.ErrorResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "invalid_input", response.Error)
				assert.Contains(t, response.Message, "keystore file name")
			})

			// [7/10] Test POST /v1/instances/:instance/config/clear - Clear configuration
			t.Run("07_ClearConfig", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, configPath+"/clear", nil)
				assert.Equal(t, http.StatusNoContent, resp.StatusCode)
				assert.Empty(t, body)
			})

			// [8/10] Test GET /v1/instances/:instance/config - Cleared configuration is gone
			t.Run("08_GetClearedConfig", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, configPath, nil)
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)

				var response httputil.ErrorResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "not_found", response.Error)
			})

			// [9/10] Test DELETE /v1/instances/:instance/config - Delete instance
			t.Run("09_DeleteConfig", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodDelete, configPath, nil)
				assert.Equal(t, http.StatusNoContent, resp.StatusCode)
				assert.Empty(t, body)
			})

			// [10/10] Test GET /v1/instances/:instance/config - Instance is gone after deletion
			t.Run("10_VerifyInstanceGone", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, configPath, nil)
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)

				var response httputil.ErrorResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "not_found", response.Error)
			})

			t.Logf("All 10 issuance configuration endpoint tests passed for %s", tc.dbDriver)
		})
	}
}

// TestIntegration_Identity_CompleteFlow tests the identity directory complete lifecycle.
// Validates entry creation with policy gating, attribute merging, attribute removal,
// username immutability, duplicate rejection, listing, and deletion.
func TestIntegration_Identity_CompleteFlow(t *testing.T) {
	// Skip if short mode (integration tests can be slow)
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testCases := []struct {
		name     string
		dbDriver string
	}{
		{"PostgreSQL", "postgres"},
		{"MySQL", "mysql"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Setup
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			// Test data shared across the flow
			var (
				username  = "jane.doe"
				entryPath = "/v1/identities/" + username
			)

			// [1/11] Test POST /v1/identities - Create directory entry
			t.Run("01_CreateEntry", func(t *testing.T) {
				requestBody := identityDTO.CreateEntryRequest{
					Attributes: map[string][]string{
						"username":        {username},
						"userPassword":    {"correct-horse-battery"},
						"mail":            {"jane.doe@example.com"},
						"givenName":       {"Jane"},
						"sn":              {"Doe"},
						"telephoneNumber": {"+1 555 0100"},
					},
				}

				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/identities", requestBody)
				assert.Equal(t, http.StatusCreated, resp.StatusCode)

				var response identityDTO.EntryResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.NotEmpty(t, response.ID)
				assert.Equal(t, username, response.Username)
				assert.False(t, response.CreatedAt.IsZero())
				assert.Equal(t, []string{"jane.doe@example.com"}, response.Attributes["mail"])

				// The password is hashed into the entry and never echoed back
				assert.NotContains(t, response.Attributes, "userPassword")
			})

			// [2/11] Test GET /v1/identities/:username - Read directory entry
			t.Run("02_GetEntry", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, entryPath, nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response identityDTO.EntryResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, username, response.Username)
				assert.Equal(t, []string{"Jane"}, response.Attributes["givenName"])
				assert.NotContains(t, response.Attributes, "userPassword")
			})

			// [3/11] Test PATCH /v1/identities/:username - Merge attribute changes
			t.Run("03_UpdateEntryAttributes", func(t *testing.T) {
				requestBody := identityDTO.UpdateEntryRequest{
					Attributes: map[string][]string{
						"mail":        {"jane.doe@corp.example.com"},
						"displayName": {"Jane Doe"},
					},
				}

				resp, body := ctx.makeRequest(t, http.MethodPatch, entryPath, requestBody)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response identityDTO.EntryResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, []string{"jane.doe@corp.example.com"}, response.Attributes["mail"])
				assert.Equal(t, []string{"Jane Doe"}, response.Attributes["displayName"])
				assert.Equal(t, []string{"+1 555 0100"}, response.Attributes["telephoneNumber"],
					"untouched attributes should survive the merge")
			})

			// [4/11] Test PATCH /v1/identities/:username - Empty value list removes attribute
			t.Run("04_RemoveAttribute", func(t *testing.T) {
				requestBody := identityDTO.UpdateEntryRequest{
					Attributes: map[string][]string{
						"telephoneNumber": {},
					},
				}

				resp, body := ctx.makeRequest(t, http.MethodPatch, entryPath, requestBody)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response identityDTO.EntryResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.NotContains(t, response.Attributes, "telephoneNumber")
			})

			// [5/11] Test PATCH /v1/identities/:username - Username cannot be changed
			t.Run("05_RejectUsernameChange", func(t *testing.T) {
				requestBody := identityDTO.UpdateEntryRequest{
					Attributes: map[string][]string{
						"username": {"john.doe"},
					},
				}

				resp, body := ctx.makeRequest(t, http.MethodPatch, entryPath, requestBody)
				assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

				var response httputil.ErrorResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "invalid_input", response.Error)
				assert.Contains(t, response.Message, "username cannot be changed")
			})

			// [6/11] Test POST /v1/identities - Policy rejects short passwords
			t.Run("06_RejectShortPassword", func(t *testing.T) {
				requestBody := identityDTO.CreateEntryRequest{
					Attributes: map[string][]string{
						"username":     {"short.password.user"},
						"userPassword": {"short"},
					},
				}

				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/identities", requestBody)
				assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

				var response httputil.ErrorResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "invalid_input", response.Error)
				assert.Contains(t, response.Message, "password must be at least 8 characters")
			})

			// [7/11] Test POST /v1/identities - Policy rejects forbidden username characters
			t.Run("07_RejectForbiddenUsername", func(t *testing.T) {
				requestBody := identityDTO.CreateEntryRequest{
					Attributes: map[string][]string{
						"username":     {"invalid/user"},
						"userPassword": {"correct-horse-battery"},
					},
				}

				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/identities", requestBody)
				assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

				var response httputil.ErrorResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "invalid_input", response.Error)
				assert.Contains(t, response.Message, "invalid/user")
			})

			// [8/11] Test POST /v1/identities - Duplicate usernames conflict
			t.Run("08_CreateDuplicateEntry", func(t *testing.T) {
				requestBody := identityDTO.CreateEntryRequest{
					Attributes: map[string][]string{
						"username":     {username},
						"userPassword": {"correct-horse-battery"},
					},
				}

				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/identities", requestBody)
				assert.Equal(t, http.StatusConflict, resp.StatusCode)

				var response httputil.ErrorResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "conflict", response.Error)
			})

			// [9/11] Test GET /v1/identities - List directory entries
			t.Run("09_ListEntries", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/identities", nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response identityDTO.ListEntriesResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				require.Len(t, response.Data, 1)
				assert.Equal(t, username, response.Data[0].Username)
			})

			// [10/11] Test DELETE /v1/identities/:username - Delete directory entry
			t.Run("10_DeleteEntry", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodDelete, entryPath, nil)
				assert.Equal(t, http.StatusNoContent, resp.StatusCode)
				assert.Empty(t, body)
			})

			// [11/11] Test GET /v1/identities/:username - Entry is gone after deletion
			t.Run("11_VerifyEntryGone", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, entryPath, nil)
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)

				var response httputil.ErrorResponse
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "not_found", response.Error)
			})

			t.Logf("All 11 identity directory endpoint tests passed for %s", tc.dbDriver)
		})
	}
}
