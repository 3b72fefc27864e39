package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	issuanceUseCase "github.com/allisson/idp/internal/issuance/usecase"
)

// RunClearConfig overwrites the instance's stored configuration with the
// empty record, keeping the instance itself. The next publish starts from a
// clean slate. Unless skipConfirm is set, the user is asked to confirm on
// the provided reader before the store is touched.
func RunClearConfig(
	ctx context.Context,
	configUseCase issuanceUseCase.ConfigUseCase,
	logger *slog.Logger,
	io IOTuple,
	instanceName string,
	skipConfirm bool,
	format string,
) error {
	if instanceName == "" {
		return fmt.Errorf("instance name cannot be empty")
	}

	if !skipConfirm {
		confirmed, err := confirmClear(io, instanceName)
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			_, _ = fmt.Fprintln(io.Writer, "Aborted, configuration left unchanged.")
			return nil
		}
	}

	logger.Info("clearing configuration",
		slog.String("instance", instanceName),
	)

	if err := configUseCase.Clear(ctx, instanceName); err != nil {
		return fmt.Errorf("failed to clear configuration: %w", err)
	}

	// Output result based on format
	if format == "json" {
		if err := outputClearJSON(io.Writer, instanceName); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		outputClearText(io.Writer, instanceName)
	}

	logger.Info("configuration cleared",
		slog.String("instance", instanceName),
	)

	return nil
}

// confirmClear prompts for confirmation before a configuration is overwritten.
// Accepts "y" or "yes" in any case, anything else declines.
func confirmClear(io IOTuple, instanceName string) (bool, error) {
	reader := bufio.NewReader(io.Reader)

	_, _ = fmt.Fprintf(
		io.Writer,
		"This overwrites the configuration of instance %q with the empty record. Continue? (y/n): ",
		instanceName,
	)

	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes", nil
}

// outputClearText outputs the result in human-readable text format.
func outputClearText(writer io.Writer, instanceName string) {
	_, _ = fmt.Fprintf(writer, "Successfully cleared configuration for instance %q\n", instanceName)
}

// outputClearJSON outputs the result in JSON format for machine consumption.
func outputClearJSON(writer io.Writer, instanceName string) error {
	result := map[string]interface{}{
		"instance": instanceName,
		"cleared":  true,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
