package app

import (
	"fmt"

	identityDomain "github.com/allisson/idp/internal/identity/domain"
	identityHTTP "github.com/allisson/idp/internal/identity/http"
	identityRepository "github.com/allisson/idp/internal/identity/repository"
	identityUseCase "github.com/allisson/idp/internal/identity/usecase"
)

// AttributeValidator returns the directory attribute validator with the
// policy loaded from configuration.
func (c *Container) AttributeValidator() *identityDomain.AttributeValidator {
	c.attributeValidatorInit.Do(func() {
		c.attributeValidator = c.initAttributeValidator()
	})
	return c.attributeValidator
}

// EntryRepository returns the directory entry repository instance.
func (c *Container) EntryRepository() (identityUseCase.EntryRepository, error) {
	var err error
	c.entryRepoInit.Do(func() {
		c.entryRepo, err = c.initEntryRepository()
		if err != nil {
			c.initErrors["entryRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["entryRepo"]; exists {
		return nil, storedErr
	}
	return c.entryRepo, nil
}

// EntryUseCase returns the directory entry use case instance.
func (c *Container) EntryUseCase() (identityUseCase.EntryUseCase, error) {
	var err error
	c.entryUseCaseInit.Do(func() {
		c.entryUseCase, err = c.initEntryUseCase()
		if err != nil {
			c.initErrors["entryUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["entryUseCase"]; exists {
		return nil, storedErr
	}
	return c.entryUseCase, nil
}

// EntryHandler returns the HTTP handler for directory entry operations.
func (c *Container) EntryHandler() (*identityHTTP.EntryHandler, error) {
	var err error
	c.entryHandlerInit.Do(func() {
		c.entryHandler, err = c.initEntryHandler()
		if err != nil {
			c.initErrors["entryHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["entryHandler"]; exists {
		return nil, storedErr
	}
	return c.entryHandler, nil
}

// initAttributeValidator creates the attribute validator and loads the policy
// from the raw configuration options. Options with empty values are omitted so
// the corresponding rules stay disabled.
func (c *Container) initAttributeValidator() *identityDomain.AttributeValidator {
	options := make(map[string][]string)
	if c.config.IDPMinimumPasswordLength != "" {
		options[identityDomain.OptionMinimumPasswordLength] = []string{c.config.IDPMinimumPasswordLength}
	}
	if c.config.IDPUsernameInvalidChars != "" {
		options[identityDomain.OptionUsernameInvalidChars] = []string{c.config.IDPUsernameInvalidChars}
	}

	validator := identityDomain.NewAttributeValidator(c.Logger())
	validator.Initialize(options)
	return validator
}

// initEntryRepository creates the entry repository based on the database driver.
func (c *Container) initEntryRepository() (identityUseCase.EntryRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for entry repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return identityRepository.NewMySQLEntryRepository(db), nil
	case "postgres":
		return identityRepository.NewPostgreSQLEntryRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initEntryUseCase creates the entry use case with all its dependencies.
func (c *Container) initEntryUseCase() (identityUseCase.EntryUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for entry use case: %w", err)
	}

	entryRepo, err := c.EntryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get entry repository for entry use case: %w", err)
	}

	eventRecorder, err := c.EventRecorder()
	if err != nil {
		return nil, fmt.Errorf("failed to get event recorder for entry use case: %w", err)
	}

	useCase, err := identityUseCase.NewEntryUseCase(txManager, entryRepo, c.AttributeValidator(), eventRecorder)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry use case: %w", err)
	}

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for entry use case: %w", err)
		}
		useCase = identityUseCase.NewEntryUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initEntryHandler creates the entry HTTP handler with all its dependencies.
func (c *Container) initEntryHandler() (*identityHTTP.EntryHandler, error) {
	entryUseCase, err := c.EntryUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get entry use case for entry handler: %w", err)
	}

	return identityHTTP.NewEntryHandler(entryUseCase, c.Logger()), nil
}
