package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/idp/internal/errors"
	"github.com/allisson/idp/internal/outbox/domain"
	"github.com/allisson/idp/internal/outbox/service"
)

// EventRecorder builds, signs and persists outbox events. Feature use cases
// call Record inside their own transaction so the event commits atomically
// with the state change it describes.
type EventRecorder struct {
	outboxRepo OutboxEventRepository
	signer     service.EventSigner
}

// NewEventRecorder creates a new EventRecorder
func NewEventRecorder(outboxRepo OutboxEventRepository, signer service.EventSigner) *EventRecorder {
	return &EventRecorder{
		outboxRepo: outboxRepo,
		signer:     signer,
	}
}

// Record marshals the payload, signs the resulting event and inserts it as
// pending. CreatedAt is truncated to microseconds to match the precision of
// the database column the signature must survive a round-trip through.
func (r *EventRecorder) Record(ctx context.Context, eventType string, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal event payload")
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	event := &domain.OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Payload:   string(payloadJSON),
		Status:    domain.OutboxEventStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	signature, err := r.signer.Sign(event)
	if err != nil {
		return apperrors.Wrap(err, "failed to sign event")
	}
	event.Signature = signature

	if err := r.outboxRepo.Create(ctx, event); err != nil {
		return apperrors.Wrap(err, "failed to create outbox event")
	}

	return nil
}
