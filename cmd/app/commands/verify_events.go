package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	outboxUseCase "github.com/allisson/idp/internal/outbox/usecase"
)

// RunVerifyEvents re-verifies the signatures of stored outbox events, newest
// first, up to limit. Events written before signing was enabled count as
// unsigned rather than invalid.
//
// Requirements: OUTBOX_SIGNING_KEY must be set so signatures can be recomputed.
func RunVerifyEvents(
	ctx context.Context,
	useCase outboxUseCase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	limit int,
	format string,
) error {
	if limit <= 0 {
		return fmt.Errorf("limit must be a positive number, got: %d", limit)
	}

	logger.Info("verifying outbox events",
		slog.Int("limit", limit),
	)

	report, err := useCase.VerifyEvents(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to verify outbox events: %w", err)
	}

	// Output result based on format
	if format == "json" {
		if err := outputEventsJSON(writer, report); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		outputEventsText(writer, report)
	}

	// Log summary
	logger.Info("verification completed",
		slog.Int64("total_checked", report.TotalChecked),
		slog.Int64("valid", report.ValidCount),
		slog.Int64("invalid", report.InvalidCount),
		slog.Int64("unsigned", report.UnsignedCount),
	)

	// Exit with error code if integrity check failed
	if report.InvalidCount > 0 {
		return fmt.Errorf("integrity check failed: %d invalid signature(s)", report.InvalidCount)
	}

	return nil
}

// outputEventsText outputs the verification result in human-readable text format.
func outputEventsText(writer io.Writer, report *outboxUseCase.VerificationReport) {
	_, _ = fmt.Fprintf(writer, "Outbox Event Integrity Verification\n")
	_, _ = fmt.Fprintf(writer, "===================================\n\n")

	_, _ = fmt.Fprintf(writer, "Total Checked:  %d\n", report.TotalChecked)
	_, _ = fmt.Fprintf(writer, "Signed:         %d\n", report.SignedCount)
	_, _ = fmt.Fprintf(writer, "Unsigned:       %d (legacy)\n", report.UnsignedCount)
	_, _ = fmt.Fprintf(writer, "Valid:          %d\n", report.ValidCount)
	_, _ = fmt.Fprintf(writer, "Invalid:        %d\n\n", report.InvalidCount)

	switch {
	case report.InvalidCount > 0:
		_, _ = fmt.Fprintf(writer, "WARNING: %d event(s) failed integrity check!\n\n", report.InvalidCount)
		_, _ = fmt.Fprintf(writer, "Invalid Event IDs:\n")
		for _, id := range report.InvalidEvents {
			_, _ = fmt.Fprintf(writer, "  - %s\n", id)
		}
		_, _ = fmt.Fprintf(writer, "\nStatus: FAILED ❌\n")
	case report.TotalChecked == 0:
		_, _ = fmt.Fprintf(writer, "Status: No events found\n")
	default:
		_, _ = fmt.Fprintf(writer, "Status: PASSED ✓\n")
	}
}

// outputEventsJSON outputs the verification result in JSON format for machine consumption.
func outputEventsJSON(writer io.Writer, report *outboxUseCase.VerificationReport) error {
	result := map[string]interface{}{
		"total_checked":  report.TotalChecked,
		"signed_count":   report.SignedCount,
		"unsigned_count": report.UnsignedCount,
		"valid_count":    report.ValidCount,
		"invalid_count":  report.InvalidCount,
		"invalid_events": report.InvalidEvents,
		"passed":         report.InvalidCount == 0,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
