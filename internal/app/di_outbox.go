package app

import (
	"fmt"

	outboxRepository "github.com/allisson/idp/internal/outbox/repository"
	outboxService "github.com/allisson/idp/internal/outbox/service"
	outboxUseCase "github.com/allisson/idp/internal/outbox/usecase"
)

// EventSigner returns the signer used to make outbox events tamper-evident.
// A no-op signer is returned when no signing key is configured.
func (c *Container) EventSigner() outboxService.EventSigner {
	c.eventSignerInit.Do(func() {
		c.eventSigner = c.initEventSigner()
	})
	return c.eventSigner
}

// OutboxRepository returns the outbox event repository instance.
func (c *Container) OutboxRepository() (outboxUseCase.OutboxEventRepository, error) {
	var err error
	c.outboxRepoInit.Do(func() {
		c.outboxRepo, err = c.initOutboxRepository()
		if err != nil {
			c.initErrors["outboxRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxRepo"]; exists {
		return nil, storedErr
	}
	return c.outboxRepo, nil
}

// EventRecorder returns the recorder use cases call to append change events
// inside their transactions.
func (c *Container) EventRecorder() (*outboxUseCase.EventRecorder, error) {
	var err error
	c.eventRecorderInit.Do(func() {
		c.eventRecorder, err = c.initEventRecorder()
		if err != nil {
			c.initErrors["eventRecorder"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventRecorder"]; exists {
		return nil, storedErr
	}
	return c.eventRecorder, nil
}

// OutboxUseCase returns the outbox use case instance.
func (c *Container) OutboxUseCase() (outboxUseCase.UseCase, error) {
	var err error
	c.outboxUseCaseInit.Do(func() {
		c.outboxUC, err = c.initOutboxUseCase()
		if err != nil {
			c.initErrors["outboxUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxUseCase"]; exists {
		return nil, storedErr
	}
	return c.outboxUC, nil
}

// initEventSigner creates the event signer from the configured root key.
func (c *Container) initEventSigner() outboxService.EventSigner {
	if c.config.OutboxSigningKey == "" {
		return outboxService.NewNoopEventSigner()
	}
	return outboxService.NewEventSigner([]byte(c.config.OutboxSigningKey))
}

// initOutboxRepository creates the outbox event repository based on the database driver.
func (c *Container) initOutboxRepository() (outboxUseCase.OutboxEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return outboxRepository.NewMySQLOutboxEventRepository(db), nil
	case "postgres":
		return outboxRepository.NewPostgreSQLOutboxEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initEventRecorder creates the event recorder with all its dependencies.
func (c *Container) initEventRecorder() (*outboxUseCase.EventRecorder, error) {
	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for event recorder: %w", err)
	}

	return outboxUseCase.NewEventRecorder(outboxRepo, c.EventSigner()), nil
}

// initOutboxUseCase creates the outbox use case with all its dependencies.
func (c *Container) initOutboxUseCase() (outboxUseCase.UseCase, error) {
	logger := c.Logger()

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for outbox use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for outbox use case: %w", err)
	}

	useCaseConfig := outboxUseCase.Config{
		Interval:   c.config.WorkerInterval,
		BatchSize:  c.config.WorkerBatchSize,
		MaxRetries: c.config.WorkerMaxRetries,
	}

	var eventProcessor outboxUseCase.EventProcessor = outboxUseCase.NewDefaultEventProcessor(logger)
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for outbox use case: %w", err)
		}
		eventProcessor = outboxUseCase.NewEventProcessorWithMetrics(eventProcessor, businessMetrics)
	}

	useCase := outboxUseCase.NewOutboxUseCase(
		useCaseConfig,
		txManager,
		outboxRepo,
		c.EventSigner(),
		eventProcessor,
		logger,
	)

	return useCase, nil
}
