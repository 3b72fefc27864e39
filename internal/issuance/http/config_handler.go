// Package http provides HTTP handlers for token issuance configuration
// management. Each named instance owns at most one published configuration.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/idp/internal/httputil"
	"github.com/allisson/idp/internal/issuance/http/dto"
	issuanceUseCase "github.com/allisson/idp/internal/issuance/usecase"
	customValidation "github.com/allisson/idp/internal/validation"
)

// ConfigHandler handles HTTP requests for issuance configuration operations.
type ConfigHandler struct {
	configUseCase issuanceUseCase.ConfigUseCase
	logger        *slog.Logger
}

// NewConfigHandler creates a new config handler with required dependencies.
func NewConfigHandler(configUseCase issuanceUseCase.ConfigUseCase, logger *slog.Logger) *ConfigHandler {
	return &ConfigHandler{
		configUseCase: configUseCase,
		logger:        logger,
	}
}

// instanceName extracts and validates the instance name URL parameter.
func (h *ConfigHandler) instanceName(c *gin.Context) (string, error) {
	name := c.Param("instance")
	if name == "" {
		return "", fmt.Errorf("instance name cannot be empty")
	}
	if err := customValidation.InstanceName.Validate(name); err != nil {
		return "", fmt.Errorf("invalid instance name: %w", err)
	}
	return name, nil
}

// PublishHandler publishes a configuration for an instance, replacing any
// previously published one.
// PUT /v1/instances/:instance/config
// Returns 201 Created with the instance metadata and the redacted document.
func (h *ConfigHandler) PublishHandler(c *gin.Context) {
	name, err := h.instanceName(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.PublishConfigRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Call use case
	config, instance, err := h.configUseCase.Publish(c.Request.Context(), name, req.ToDocument())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response with passwords redacted
	response := dto.MapConfigToResponse(instance, config)
	c.JSON(http.StatusCreated, response)
}

// GetHandler retrieves the published configuration of an instance.
// GET /v1/instances/:instance/config
// Returns 200 OK with the redacted document, 404 when the instance is unknown
// or its configuration was cleared.
func (h *ConfigHandler) GetHandler(c *gin.Context) {
	name, err := h.instanceName(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	config, instance, err := h.configUseCase.Get(c.Request.Context(), name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapConfigToResponse(instance, config)
	c.JSON(http.StatusOK, response)
}

// DeleteHandler removes an instance and its configuration.
// DELETE /v1/instances/:instance/config
// Returns 204 No Content.
func (h *ConfigHandler) DeleteHandler(c *gin.Context) {
	name, err := h.instanceName(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.configUseCase.Delete(c.Request.Context(), name); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ClearHandler clears every configuration field of an instance while keeping
// the instance itself.
// POST /v1/instances/:instance/config/clear
// Returns 204 No Content, 404 when the instance is unknown.
func (h *ConfigHandler) ClearHandler(c *gin.Context) {
	name, err := h.instanceName(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.configUseCase.Clear(c.Request.Context(), name); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ListInstancesHandler retrieves instances with pagination support.
// GET /v1/instances?offset=0&limit=50
// Returns 200 OK with the paginated instance list.
func (h *ConfigHandler) ListInstancesHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	instances, err := h.configUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapInstancesToListResponse(instances)
	c.JSON(http.StatusOK, response)
}
