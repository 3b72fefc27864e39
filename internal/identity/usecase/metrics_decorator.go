package usecase

import (
	"context"
	"time"

	"github.com/allisson/idp/internal/identity/domain"
	"github.com/allisson/idp/internal/metrics"
)

// entryUseCaseWithMetrics decorates EntryUseCase with metrics instrumentation.
type entryUseCaseWithMetrics struct {
	next    EntryUseCase
	metrics metrics.BusinessMetrics
}

// NewEntryUseCaseWithMetrics wraps an EntryUseCase with metrics recording.
func NewEntryUseCaseWithMetrics(useCase EntryUseCase, m metrics.BusinessMetrics) EntryUseCase {
	return &entryUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for entry creation operations.
func (e *entryUseCaseWithMetrics) Create(
	ctx context.Context,
	attrs map[string][]string,
) (*domain.Entry, error) {
	start := time.Now()
	entry, err := e.next.Create(ctx, attrs)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "identity", "entry_create", status)
	e.metrics.RecordDuration(ctx, "identity", "entry_create", time.Since(start), status)

	return entry, err
}

// Get records metrics for entry retrieval operations.
func (e *entryUseCaseWithMetrics) Get(ctx context.Context, username string) (*domain.Entry, error) {
	start := time.Now()
	entry, err := e.next.Get(ctx, username)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "identity", "entry_get", status)
	e.metrics.RecordDuration(ctx, "identity", "entry_get", time.Since(start), status)

	return entry, err
}

// Update records metrics for entry update operations.
func (e *entryUseCaseWithMetrics) Update(
	ctx context.Context,
	username string,
	attrs map[string][]string,
) (*domain.Entry, error) {
	start := time.Now()
	entry, err := e.next.Update(ctx, username, attrs)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "identity", "entry_update", status)
	e.metrics.RecordDuration(ctx, "identity", "entry_update", time.Since(start), status)

	return entry, err
}

// Delete records metrics for entry deletion operations.
func (e *entryUseCaseWithMetrics) Delete(ctx context.Context, username string) error {
	start := time.Now()
	err := e.next.Delete(ctx, username)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "identity", "entry_delete", status)
	e.metrics.RecordDuration(ctx, "identity", "entry_delete", time.Since(start), status)

	return err
}

// List records metrics for entry listing operations.
func (e *entryUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Entry, error) {
	start := time.Now()
	entries, err := e.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "identity", "entry_list", status)
	e.metrics.RecordDuration(ctx, "identity", "entry_list", time.Since(start), status)

	return entries, err
}
