// Package http provides HTTP handlers for directory entry management. Every
// write is gated by the attribute validation policy before it reaches storage.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/idp/internal/httputil"
	"github.com/allisson/idp/internal/identity/http/dto"
	identityUseCase "github.com/allisson/idp/internal/identity/usecase"
	customValidation "github.com/allisson/idp/internal/validation"
)

// EntryHandler handles HTTP requests for directory entry operations.
type EntryHandler struct {
	entryUseCase identityUseCase.EntryUseCase
	logger       *slog.Logger
}

// NewEntryHandler creates a new entry handler with required dependencies.
func NewEntryHandler(entryUseCase identityUseCase.EntryUseCase, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{
		entryUseCase: entryUseCase,
		logger:       logger,
	}
}

// username extracts the username URL parameter. Format rules are owned by the
// attribute validation policy, so the handler only rejects an empty value.
func (h *EntryHandler) username(c *gin.Context) (string, error) {
	name := c.Param("username")
	if name == "" {
		return "", fmt.Errorf("username cannot be empty")
	}
	return name, nil
}

// CreateHandler creates a directory entry from an attribute change-set.
// POST /v1/identities
// Returns 201 Created with the stored entry; the password attribute is hashed
// and never echoed back.
func (h *EntryHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateEntryRequest

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
	entry, err := h.entryUseCase.Create(c.Request.Context(), req.Attributes)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapEntryToResponse(entry)
	c.JSON(http.StatusCreated, response)
}

// GetHandler retrieves a directory entry.
// GET /v1/identities/:username
// Returns 200 OK with the entry, 404 when the username is unknown.
func (h *EntryHandler) GetHandler(c *gin.Context) {
	name, err := h.username(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	entry, err := h.entryUseCase.Get(c.Request.Context(), name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapEntryToResponse(entry)
	c.JSON(http.StatusOK, response)
}

// UpdateHandler merges an attribute change-set into an existing entry.
// PATCH /v1/identities/:username
// Returns 200 OK with the updated entry, 404 when the username is unknown.
func (h *EntryHandler) UpdateHandler(c *gin.Context) {
	name, err := h.username(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdateEntryRequest

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
	entry, err := h.entryUseCase.Update(c.Request.Context(), name, req.Attributes)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapEntryToResponse(entry)
	c.JSON(http.StatusOK, response)
}

// DeleteHandler removes a directory entry.
// DELETE /v1/identities/:username
// Returns 204 No Content, 404 when the username is unknown.
func (h *EntryHandler) DeleteHandler(c *gin.Context) {
	name, err := h.username(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.entryUseCase.Delete(c.Request.Context(), name); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ListHandler retrieves directory entries with pagination support.
// GET /v1/identities?offset=0&limit=50
// Returns 200 OK with the paginated entry list.
func (h *EntryHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	entries, err := h.entryUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapEntriesToListResponse(entries)
	c.JSON(http.StatusOK, response)
}
