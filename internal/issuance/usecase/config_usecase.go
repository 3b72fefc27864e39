package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/allisson/idp/internal/database"
	apperrors "github.com/allisson/idp/internal/errors"
	"github.com/allisson/idp/internal/issuance/domain"
	"github.com/allisson/idp/internal/issuance/service"
	outboxDomain "github.com/allisson/idp/internal/outbox/domain"
)

// configUseCase implements the ConfigUseCase interface.
type configUseCase struct {
	txManager     database.TxManager
	configRepo    ConfigRepository
	fieldCipher   service.FieldCipher
	cache         service.ConfigCache
	eventRecorder EventRecorder
	logger        *slog.Logger
}

// NewConfigUseCase creates a new ConfigUseCase
func NewConfigUseCase(
	txManager database.TxManager,
	configRepo ConfigRepository,
	fieldCipher service.FieldCipher,
	cache service.ConfigCache,
	eventRecorder EventRecorder,
	logger *slog.Logger,
) ConfigUseCase {
	return &configUseCase{
		txManager:     txManager,
		configRepo:    configRepo,
		fieldCipher:   fieldCipher,
		cache:         cache,
		eventRecorder: eventRecorder,
		logger:        logger,
	}
}

// Publish validates the document, encrypts the sensitive fields of its flat
// record and stores it, replacing any previous record. The change event
// commits in the same transaction as the record.
func (uc *configUseCase) Publish(
	ctx context.Context,
	instanceName string,
	doc *domain.Document,
) (*domain.Config, *domain.Instance, error) {
	config, err := domain.ConfigFromDocument(doc)
	if err != nil {
		// A parse failure on an inbound document is a caller error. The same
		// failure on a stored record is not, so the mapping happens here.
		if errors.Is(err, domain.ErrMarshal) {
			err = apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
		}
		return nil, nil, err
	}

	encrypted, err := uc.fieldCipher.EncryptRecord(ctx, config.FlatAttributeMap())
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to encrypt config record")
	}

	var instance *domain.Instance
	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		saved, err := uc.configRepo.Save(ctx, instanceName, encrypted)
		if err != nil {
			return err
		}
		instance = saved

		return uc.eventRecorder.Record(ctx, outboxDomain.EventTypeConfigPublished, map[string]any{
			"instance":     instanceName,
			"issuer_name":  config.IssuerName(),
			"sp_entity_id": config.SPEntityID(),
		})
	})
	if err != nil {
		return nil, nil, err
	}

	uc.invalidateCache(ctx, instanceName)

	return config, instance, nil
}

// Get loads the instance's record through the cache, decrypting on a miss.
func (uc *configUseCase) Get(
	ctx context.Context,
	instanceName string,
) (*domain.Config, *domain.Instance, error) {
	instance, err := uc.configRepo.GetInstance(ctx, instanceName)
	if err != nil {
		return nil, nil, err
	}

	flat, err := uc.cache.Get(ctx, instanceName)
	if err != nil {
		if !errors.Is(err, service.ErrCacheMiss) && uc.logger != nil {
			uc.logger.Warn("config cache read failed",
				slog.String("instance", instanceName),
				slog.Any("error", err),
			)
		}
		flat = nil
	}

	if flat == nil {
		stored, err := uc.configRepo.Load(ctx, instanceName)
		if err != nil {
			return nil, nil, err
		}

		flat, err = uc.fieldCipher.DecryptRecord(ctx, stored)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, "failed to decrypt config record")
		}

		if err := uc.cache.Set(ctx, instanceName, flat); err != nil && uc.logger != nil {
			uc.logger.Warn("config cache write failed",
				slog.String("instance", instanceName),
				slog.Any("error", err),
			)
		}
	}

	config, ok, err := domain.ConfigFromFlatMap(flat)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, domain.ErrConfigAbsent
	}

	return config, instance, nil
}

// Delete removes the instance and its record.
func (uc *configUseCase) Delete(ctx context.Context, instanceName string) error {
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.configRepo.Delete(ctx, instanceName); err != nil {
			return err
		}

		return uc.eventRecorder.Record(ctx, outboxDomain.EventTypeConfigDeleted, map[string]any{
			"instance": instanceName,
		})
	})
	if err != nil {
		return err
	}

	uc.invalidateCache(ctx, instanceName)

	return nil
}

// Clear writes the empty flat record over the instance's current record.
func (uc *configUseCase) Clear(ctx context.Context, instanceName string) error {
	// The instance must exist: clearing never creates one.
	if _, err := uc.configRepo.GetInstance(ctx, instanceName); err != nil {
		return err
	}

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.configRepo.Save(ctx, instanceName, domain.EmptyFlatRecord()); err != nil {
			return err
		}

		return uc.eventRecorder.Record(ctx, outboxDomain.EventTypeConfigCleared, map[string]any{
			"instance": instanceName,
		})
	})
	if err != nil {
		return err
	}

	uc.invalidateCache(ctx, instanceName)

	return nil
}

// List returns instances ordered by name.
func (uc *configUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Instance, error) {
	return uc.configRepo.List(ctx, offset, limit)
}

func (uc *configUseCase) invalidateCache(ctx context.Context, instanceName string) {
	if err := uc.cache.Invalidate(ctx, instanceName); err != nil && uc.logger != nil {
		uc.logger.Warn("config cache invalidation failed",
			slog.String("instance", instanceName),
			slog.Any("error", err),
		)
	}
}
