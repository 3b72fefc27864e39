// Package integration provides integration tests for outbox event cryptographic signatures.
package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/idp/internal/app"
	"github.com/allisson/idp/internal/config"
	issuanceDomain "github.com/allisson/idp/internal/issuance/domain"
	outboxDomain "github.com/allisson/idp/internal/outbox/domain"
	outboxService "github.com/allisson/idp/internal/outbox/service"
	outboxUseCase "github.com/allisson/idp/internal/outbox/usecase"
	"github.com/allisson/idp/internal/testutil"
)

// TestOutboxEventSignature_EndToEnd verifies complete outbox event signing and verification workflow.
func TestOutboxEventSignature_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dbConfigs := []struct {
		name   string
		driver string
		dsn    string
	}{
		{
			name:   "PostgreSQL",
			driver: "postgres",
			dsn:    testutil.GetPostgresTestDSN(),
		},
		{
			name:   "MySQL",
			driver: "mysql",
			dsn:    testutil.GetMySQLTestDSN(),
		},
	}

	for _, dbConfig := range dbConfigs {
		t.Run(dbConfig.name, func(t *testing.T) {
			ctx := context.Background()
			driver := dbConfig.driver // Capture driver for inner test functions

			// Setup test database and a container with event signing enabled
			testCtx := setupOutboxTestContext(t, driver, dbConfig.dsn)
			defer cleanupOutboxTestContext(t, testCtx)

			configUseCase, err := testCtx.container.ConfigUseCase()
			require.NoError(t, err, "failed to get config use case")

			entryUseCase, err := testCtx.container.EntryUseCase()
			require.NoError(t, err, "failed to get entry use case")

			outboxUC, err := testCtx.container.OutboxUseCase()
			require.NoError(t, err, "failed to get outbox use case")

			outboxRepo, err := testCtx.container.OutboxRepository()
			require.NoError(t, err, "failed to get outbox repository")

			t.Run("RecordedEventsAreSigned", func(t *testing.T) {
				// Writes through the use cases record one event each
				doc := &issuanceDomain.Document{
					IssuerName: "https://idp.example.com/saml2",
					SPEntityID: "https://sp.example.com/shibboleth",
				}
				_, _, err := configUseCase.Publish(ctx, "outbox-signature-idp", doc)
				require.NoError(t, err, "failed to publish configuration")

				_, err = entryUseCase.Create(ctx, map[string][]string{
					"username":     {"outbox.signature.user"},
					"userPassword": {"outbox-test-password"},
				})
				require.NoError(t, err, "failed to create directory entry")

				events, err := outboxRepo.List(ctx, 0, 10)
				require.NoError(t, err, "failed to list outbox events")
				require.Len(t, events, 2, "expected one event per write")

				for _, event := range events {
					assert.Len(t, event.Signature, 32, "HMAC-SHA256 signature should be 32 bytes")
				}

				report, err := outboxUC.VerifyEvents(ctx, 100)
				require.NoError(t, err, "verification should succeed")

				assert.Equal(t, int64(2), report.TotalChecked, "should check 2 events")
				assert.Equal(t, int64(2), report.SignedCount, "both events should be signed")
				assert.Equal(t, int64(2), report.ValidCount, "both events should be valid")
				assert.Equal(t, int64(0), report.InvalidCount, "no invalid events")
				assert.Empty(t, report.InvalidEvents, "no invalid event IDs")
			})

			t.Run("TamperDetection", func(t *testing.T) {
				// Tamper with the newest event's payload directly in the database
				events, err := outboxRepo.List(ctx, 0, 1)
				require.NoError(t, err, "failed to list outbox events")
				require.Len(t, events, 1, "expected at least one event")

				tamperedID := events[0].ID

				var execErr error
				var result sql.Result
				if driver == "postgres" {
					result, execErr = testCtx.db.Exec(
						`UPDATE outbox_events SET payload = '{"tampered":true}' WHERE id = $1`,
						tamperedID,
					)
				} else {
					// MySQL stores UUID as BINARY(16), need binary representation
					idBinary, marshalErr := tamperedID.MarshalBinary()
					require.NoError(t, marshalErr, "failed to marshal UUID")
					result, execErr = testCtx.db.Exec(
						`UPDATE outbox_events SET payload = '{"tampered":true}' WHERE id = ?`,
						idBinary,
					)
				}
				require.NoError(t, execErr, "failed to tamper with outbox event")

				// Verify the UPDATE actually modified a row
				rowsAffected, _ := result.RowsAffected()
				require.Equal(t, int64(1), rowsAffected, "UPDATE should affect exactly 1 row")

				report, err := outboxUC.VerifyEvents(ctx, 100)
				require.NoError(t, err, "verification should not error")

				assert.Equal(t, int64(2), report.TotalChecked, "should check 2 events")
				assert.Equal(t, int64(2), report.SignedCount, "both events should be signed")
				assert.Equal(t, int64(1), report.ValidCount, "untouched event should stay valid")
				assert.Equal(t, int64(1), report.InvalidCount, "tampered event should fail verification")
				require.Len(t, report.InvalidEvents, 1, "should have 1 invalid event ID")
				assert.Equal(t, tamperedID, report.InvalidEvents[0], "invalid event ID should match tampered event")
			})

			t.Run("LegacyUnsignedEvents", func(t *testing.T) {
				// Events recorded before signing was enabled carry an empty signature
				legacyRecorder := outboxUseCase.NewEventRecorder(outboxRepo, outboxService.NewNoopEventSigner())
				err := legacyRecorder.Record(ctx, outboxDomain.EventTypeEntryDeleted, map[string]any{
					"username": "legacy.user",
				})
				require.NoError(t, err, "failed to record legacy event")

				report, err := outboxUC.VerifyEvents(ctx, 100)
				require.NoError(t, err, "verification should not error")

				assert.Equal(t, int64(3), report.TotalChecked, "should check 3 events")
				assert.Equal(t, int64(2), report.SignedCount, "2 events should be signed")
				assert.Equal(t, int64(1), report.UnsignedCount, "legacy event should count as unsigned, not invalid")
				assert.Equal(t, int64(1), report.ValidCount, "1 signed event should stay valid")
				assert.Equal(t, int64(1), report.InvalidCount, "tampered event should stay invalid")
			})
		})
	}
}

// outboxTestContext holds test dependencies for outbox signature tests.
type outboxTestContext struct {
	container *app.Container
	db        *sql.DB
}

// setupOutboxTestContext creates a test environment with a migrated database and
// a container configured with an outbox signing key.
func setupOutboxTestContext(t *testing.T, driver, dsn string) *outboxTestContext {
	t.Helper()

	// Initialize test database with migrations
	var db *sql.DB
	if driver == "postgres" {
		db = testutil.SetupPostgresDB(t)
	} else {
		db = testutil.SetupMySQLDB(t)
	}

	// Create config with database settings and a signing key
	cfg := &config.Config{
		DBDriver:             driver,
		DBConnectionString:   dsn,
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Hour,
		LogLevel:             "error",
		ServerPort:           8080,
		OutboxSigningKey:     "outbox-signature-test-key",
		WorkerInterval:       time.Second,
		WorkerBatchSize:      50,
		WorkerMaxRetries:     3,
	}

	// Create DI container
	container := app.NewContainer(cfg)

	return &outboxTestContext{
		container: container,
		db:        db,
	}
}

// cleanupOutboxTestContext closes database and container resources.
func cleanupOutboxTestContext(t *testing.T, testCtx *outboxTestContext) {
	t.Helper()

	if err := testCtx.container.Shutdown(context.Background()); err != nil {
		t.Logf("Warning: failed to shutdown container: %v", err)
	}

	if err := testCtx.db.Close(); err != nil {
		t.Logf("Warning: failed to close database: %v", err)
	}
}
