// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	identityHTTP "github.com/allisson/idp/internal/identity/http"
	issuanceHTTP "github.com/allisson/idp/internal/issuance/http"
	"github.com/allisson/idp/internal/metrics"
)

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// MiddlewareConfig holds the optional middleware configuration applied by SetupRouter.
type MiddlewareConfig struct {
	CORSEnabled             bool
	CORSAllowOrigins        string
	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int
	// MeterProvider enables HTTP metrics when non-nil.
	MeterProvider    metric.MeterProvider
	MetricsNamespace string
}

// NewServer creates a new API server. The router must be configured with
// SetupRouter before Start is called.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine, wiring middleware and feature routes.
// Middleware order: recovery, request ID, logging, CORS, rate limiting, metrics.
func (s *Server) SetupRouter(
	configHandler *issuanceHTTP.ConfigHandler,
	entryHandler *identityHTTP.EntryHandler,
	mw MiddlewareConfig,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(mw.CORSEnabled, mw.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if mw.RateLimitEnabled {
		router.Use(RateLimitMiddleware(mw.RateLimitRequestsPerSec, mw.RateLimitBurst, s.logger))
	}

	if mw.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(mw.MeterProvider, mw.MetricsNamespace))
	}

	// Health and readiness endpoints
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	{
		// Issuance configuration routes
		v1.GET("/instances", configHandler.ListInstancesHandler)
		v1.PUT("/instances/:instance/config", configHandler.PublishHandler)
		v1.GET("/instances/:instance/config", configHandler.GetHandler)
		v1.DELETE("/instances/:instance/config", configHandler.DeleteHandler)
		v1.POST("/instances/:instance/config/clear", configHandler.ClearHandler)

		// Identity directory routes
		v1.POST("/identities", entryHandler.CreateHandler)
		v1.GET("/identities", entryHandler.ListHandler)
		v1.GET("/identities/:username", entryHandler.GetHandler)
		v1.PATCH("/identities/:username", entryHandler.UpdateHandler)
		v1.DELETE("/identities/:username", entryHandler.DeleteHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic, checking
// each dependency individually.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Error("readiness check failed", slog.Any("error", err))
			components["database"] = "error"
			ready = false
		} else {
			components["database"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
