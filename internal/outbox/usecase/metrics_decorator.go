package usecase

import (
	"context"
	"time"

	"github.com/allisson/idp/internal/metrics"
	"github.com/allisson/idp/internal/outbox/domain"
)

// eventProcessorWithMetrics decorates EventProcessor with metrics instrumentation.
type eventProcessorWithMetrics struct {
	next    EventProcessor
	metrics metrics.BusinessMetrics
}

// NewEventProcessorWithMetrics wraps an EventProcessor with metrics recording.
func NewEventProcessorWithMetrics(processor EventProcessor, m metrics.BusinessMetrics) EventProcessor {
	return &eventProcessorWithMetrics{
		next:    processor,
		metrics: m,
	}
}

// Process records metrics for outbox event processing.
func (e *eventProcessorWithMetrics) Process(ctx context.Context, event *domain.OutboxEvent) error {
	start := time.Now()
	err := e.next.Process(ctx, event)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "outbox", "event_process", status)
	e.metrics.RecordDuration(ctx, "outbox", "event_process", time.Since(start), status)

	return err
}
