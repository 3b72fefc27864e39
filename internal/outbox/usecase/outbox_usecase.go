// Package usecase implements the outbox business logic and orchestrates outbox domain operations.
package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/idp/internal/database"
	apperrors "github.com/allisson/idp/internal/errors"
	"github.com/allisson/idp/internal/outbox/domain"
	"github.com/allisson/idp/internal/outbox/service"
)

// Config holds outbox use case configuration
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// OutboxEventRepository defines outbox event repository operations
type OutboxEventRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	List(ctx context.Context, offset, limit int) ([]*domain.OutboxEvent, error)
	Update(ctx context.Context, event *domain.OutboxEvent) error
}

// EventProcessor defines the interface for processing different event types
type EventProcessor interface {
	Process(ctx context.Context, event *domain.OutboxEvent) error
}

// VerificationReport summarizes a batch signature verification run.
type VerificationReport struct {
	TotalChecked  int64
	SignedCount   int64
	UnsignedCount int64
	ValidCount    int64
	InvalidCount  int64
	InvalidEvents []uuid.UUID
}

// UseCase defines the interface for outbox use cases
type UseCase interface {
	Start(ctx context.Context) error
	ProcessEvents(ctx context.Context) error
	VerifyEvents(ctx context.Context, limit int) (*VerificationReport, error)
}

// OutboxUseCase implements business logic for relaying and verifying outbox events
type OutboxUseCase struct {
	config         Config
	txManager      database.TxManager
	outboxRepo     OutboxEventRepository
	signer         service.EventSigner
	eventProcessor EventProcessor
	logger         *slog.Logger
}

// NewOutboxUseCase creates a new OutboxUseCase
func NewOutboxUseCase(
	config Config,
	txManager database.TxManager,
	outboxRepo OutboxEventRepository,
	signer service.EventSigner,
	eventProcessor EventProcessor,
	logger *slog.Logger,
) *OutboxUseCase {
	return &OutboxUseCase{
		config:         config,
		txManager:      txManager,
		outboxRepo:     outboxRepo,
		signer:         signer,
		eventProcessor: eventProcessor,
		logger:         logger,
	}
}

// Start starts the outbox event processing loop
func (uc *OutboxUseCase) Start(ctx context.Context) error {
	if uc.logger != nil {
		uc.logger.Info("starting outbox event processor",
			slog.Duration("interval", uc.config.Interval),
			slog.Int("batch_size", uc.config.BatchSize),
		)
	}

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if uc.logger != nil {
				uc.logger.Info("stopping outbox event processor")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := uc.ProcessEvents(ctx); err != nil {
				if uc.logger != nil {
					uc.logger.Error("failed to process events", slog.Any("error", err))
				}
			}
		}
	}
}

// ProcessEvents retrieves and processes pending events from the outbox in a transaction.
// Each event's signature is verified before it reaches the processor; events that fail
// verification are marked failed without retries, since tampering is not transient.
func (uc *OutboxUseCase) ProcessEvents(ctx context.Context) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		// Get pending events
		events, err := uc.outboxRepo.GetPendingEvents(ctx, uc.config.BatchSize)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}

		if uc.logger != nil {
			uc.logger.Info("processing events", slog.Int("count", len(events)))
		}

		for _, event := range events {
			if err := uc.signer.Verify(event); err != nil {
				if uc.logger != nil {
					uc.logger.Error("event failed signature verification",
						slog.String("event_id", event.ID.String()),
						slog.String("event_type", event.EventType),
					)
				}

				errorMsg := err.Error()
				event.Status = domain.OutboxEventStatusFailed
				event.LastError = &errorMsg
				event.UpdatedAt = time.Now().UTC()

				if err := uc.outboxRepo.Update(ctx, event); err != nil {
					return err
				}
				continue
			}

			if err := uc.processEvent(ctx, event); err != nil {
				if uc.logger != nil {
					uc.logger.Error("failed to process event",
						slog.String("event_id", event.ID.String()),
						slog.String("event_type", event.EventType),
						slog.Any("error", err),
					)
				}

				// Update event as failed
				event.Retries++
				errorMsg := err.Error()
				event.LastError = &errorMsg

				if event.Retries >= uc.config.MaxRetries {
					event.Status = domain.OutboxEventStatusFailed
				}
				event.UpdatedAt = time.Now().UTC()

				if err := uc.outboxRepo.Update(ctx, event); err != nil {
					return err
				}
				continue
			}

			// Mark event as processed
			now := time.Now().UTC()
			event.Status = domain.OutboxEventStatusProcessed
			event.ProcessedAt = &now
			event.UpdatedAt = now

			if err := uc.outboxRepo.Update(ctx, event); err != nil {
				return err
			}
		}

		return nil
	})
}

// VerifyEvents re-verifies stored event signatures, newest first, up to limit.
// Events with an empty signature are counted as unsigned rather than invalid
// so that rows written before signing was enabled do not fail the run.
func (uc *OutboxUseCase) VerifyEvents(ctx context.Context, limit int) (*VerificationReport, error) {
	events, err := uc.outboxRepo.List(ctx, 0, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list outbox events")
	}

	report := &VerificationReport{}
	for _, event := range events {
		report.TotalChecked++

		if len(event.Signature) == 0 {
			report.UnsignedCount++
			continue
		}

		report.SignedCount++
		if err := uc.signer.Verify(event); err != nil {
			report.InvalidCount++
			report.InvalidEvents = append(report.InvalidEvents, event.ID)
			continue
		}
		report.ValidCount++
	}

	return report, nil
}

// processEvent handles a single outbox event using the configured event processor
func (uc *OutboxUseCase) processEvent(ctx context.Context, event *domain.OutboxEvent) error {
	if uc.logger != nil {
		uc.logger.Info("processing event",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.EventType),
		)
	}

	return uc.eventProcessor.Process(ctx, event)
}

// DefaultEventProcessor is a default implementation of EventProcessor
type DefaultEventProcessor struct {
	logger *slog.Logger
}

// NewDefaultEventProcessor creates a new DefaultEventProcessor
func NewDefaultEventProcessor(logger *slog.Logger) *DefaultEventProcessor {
	return &DefaultEventProcessor{
		logger: logger,
	}
}

// Process handles event processing with basic logging
func (p *DefaultEventProcessor) Process(ctx context.Context, event *domain.OutboxEvent) error {
	// Parse event payload
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
		return err
	}

	// Handle different event types
	switch event.EventType {
	case domain.EventTypeConfigPublished, domain.EventTypeConfigCleared, domain.EventTypeConfigDeleted:
		if p.logger != nil {
			p.logger.Info("issuance configuration event",
				slog.String("event_type", event.EventType),
				slog.Any("payload", payload),
			)
		}
		// In a real deployment this is where downstream consumers would be
		// notified, e.g. by publishing to a message queue or refreshing caches.
	case domain.EventTypeEntryCreated, domain.EventTypeEntryUpdated, domain.EventTypeEntryDeleted:
		if p.logger != nil {
			p.logger.Info("identity entry event",
				slog.String("event_type", event.EventType),
				slog.Any("payload", payload),
			)
		}
	default:
		if p.logger != nil {
			p.logger.Warn("unknown event type", slog.String("event_type", event.EventType))
		}
	}

	return nil
}
