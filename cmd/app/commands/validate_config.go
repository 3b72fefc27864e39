package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	issuanceDomain "github.com/allisson/idp/internal/issuance/domain"
)

// passwordPlaceholder replaces password material in command output.
const passwordPlaceholder = "[REDACTED]"

// RunValidateConfig reads a configuration document from a JSON file and runs
// it through the builder without touching the database. Prints the violation
// on failure or the normalized document with passwords redacted on success.
func RunValidateConfig(
	logger *slog.Logger,
	writer io.Writer,
	filePath string,
	format string,
) error {
	logger.Info("validating configuration document",
		slog.String("file", filePath),
	)

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read document file: %w", err)
	}

	var doc issuanceDomain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse document file: %w", err)
	}

	config, buildErr := issuanceDomain.ConfigFromDocument(&doc)

	if format == "json" {
		if err := outputValidateJSON(writer, config, buildErr); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		if err := outputValidateText(writer, filePath, config, buildErr); err != nil {
			return fmt.Errorf("failed to output text: %w", err)
		}
	}

	if buildErr != nil {
		return fmt.Errorf("document validation failed: %w", buildErr)
	}

	logger.Info("document is valid")
	return nil
}

// redactedDocument renders the built configuration back to its normalized
// document form with password material replaced.
func redactedDocument(config *issuanceDomain.Config) *issuanceDomain.Document {
	doc := config.Document()
	if doc.KeystorePassword != "" {
		doc.KeystorePassword = passwordPlaceholder
	}
	if doc.SignatureKeyPassword != "" {
		doc.SignatureKeyPassword = passwordPlaceholder
	}
	return doc
}

// outputValidateText outputs the validation result in human-readable text format.
func outputValidateText(
	writer io.Writer,
	filePath string,
	config *issuanceDomain.Config,
	buildErr error,
) error {
	_, _ = fmt.Fprintf(writer, "Configuration Document Validation\n")
	_, _ = fmt.Fprintf(writer, "=================================\n\n")
	_, _ = fmt.Fprintf(writer, "File: %s\n\n", filePath)

	if buildErr != nil {
		_, _ = fmt.Fprintf(writer, "Violation: %s\n\n", buildErr)
		_, _ = fmt.Fprintf(writer, "Status: INVALID ❌\n")
		return nil
	}

	jsonBytes, err := json.MarshalIndent(redactedDocument(config), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Normalized document:\n%s\n\n", jsonBytes)
	_, _ = fmt.Fprintf(writer, "Status: VALID ✓\n")
	return nil
}

// outputValidateJSON outputs the validation result in JSON format for machine consumption.
func outputValidateJSON(writer io.Writer, config *issuanceDomain.Config, buildErr error) error {
	result := map[string]interface{}{
		"valid": buildErr == nil,
	}
	if buildErr != nil {
		result["violation"] = buildErr.Error()
	} else {
		result["config"] = redactedDocument(config)
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
