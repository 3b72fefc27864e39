package usecase

import (
	"context"
	"time"

	"github.com/allisson/idp/internal/issuance/domain"
	"github.com/allisson/idp/internal/metrics"
)

// configUseCaseWithMetrics decorates ConfigUseCase with metrics instrumentation.
type configUseCaseWithMetrics struct {
	next    ConfigUseCase
	metrics metrics.BusinessMetrics
}

// NewConfigUseCaseWithMetrics wraps a ConfigUseCase with metrics recording.
func NewConfigUseCaseWithMetrics(useCase ConfigUseCase, m metrics.BusinessMetrics) ConfigUseCase {
	return &configUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Publish records metrics for configuration publish operations.
func (c *configUseCaseWithMetrics) Publish(
	ctx context.Context,
	instanceName string,
	doc *domain.Document,
) (*domain.Config, *domain.Instance, error) {
	start := time.Now()
	config, instance, err := c.next.Publish(ctx, instanceName, doc)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "issuance", "config_publish", status)
	c.metrics.RecordDuration(ctx, "issuance", "config_publish", time.Since(start), status)

	return config, instance, err
}

// Get records metrics for configuration retrieval operations.
func (c *configUseCaseWithMetrics) Get(
	ctx context.Context,
	instanceName string,
) (*domain.Config, *domain.Instance, error) {
	start := time.Now()
	config, instance, err := c.next.Get(ctx, instanceName)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "issuance", "config_get", status)
	c.metrics.RecordDuration(ctx, "issuance", "config_get", time.Since(start), status)

	return config, instance, err
}

// Delete records metrics for configuration deletion operations.
func (c *configUseCaseWithMetrics) Delete(ctx context.Context, instanceName string) error {
	start := time.Now()
	err := c.next.Delete(ctx, instanceName)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "issuance", "config_delete", status)
	c.metrics.RecordDuration(ctx, "issuance", "config_delete", time.Since(start), status)

	return err
}

// Clear records metrics for configuration clear operations.
func (c *configUseCaseWithMetrics) Clear(ctx context.Context, instanceName string) error {
	start := time.Now()
	err := c.next.Clear(ctx, instanceName)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "issuance", "config_clear", status)
	c.metrics.RecordDuration(ctx, "issuance", "config_clear", time.Since(start), status)

	return err
}

// List records metrics for instance listing operations.
func (c *configUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Instance, error) {
	start := time.Now()
	instances, err := c.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "issuance", "instance_list", status)
	c.metrics.RecordDuration(ctx, "issuance", "instance_list", time.Since(start), status)

	return instances, err
}
