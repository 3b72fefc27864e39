package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	issuanceHTTP "github.com/allisson/idp/internal/issuance/http"
	issuanceRepository "github.com/allisson/idp/internal/issuance/repository"
	issuanceService "github.com/allisson/idp/internal/issuance/service"
	issuanceUseCase "github.com/allisson/idp/internal/issuance/usecase"
)

// FieldCipher returns the cipher used to protect sensitive configuration
// fields at rest. A no-op cipher is returned when no keeper URI is configured.
func (c *Container) FieldCipher() (issuanceService.FieldCipher, error) {
	var err error
	c.fieldCipherInit.Do(func() {
		c.fieldCipher, err = c.initFieldCipher()
		if err != nil {
			c.initErrors["fieldCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fieldCipher"]; exists {
		return nil, storedErr
	}
	return c.fieldCipher, nil
}

// ConfigCache returns the configuration record cache. A no-op cache is
// returned when caching is disabled in configuration.
func (c *Container) ConfigCache() issuanceService.ConfigCache {
	c.configCacheInit.Do(func() {
		c.configCache = c.initConfigCache()
	})
	return c.configCache
}

// ConfigRepository returns the issuance configuration repository instance.
func (c *Container) ConfigRepository() (issuanceUseCase.ConfigRepository, error) {
	var err error
	c.configRepoInit.Do(func() {
		c.configRepo, err = c.initConfigRepository()
		if err != nil {
			c.initErrors["configRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["configRepo"]; exists {
		return nil, storedErr
	}
	return c.configRepo, nil
}

// ConfigUseCase returns the issuance configuration use case instance.
func (c *Container) ConfigUseCase() (issuanceUseCase.ConfigUseCase, error) {
	var err error
	c.configUseCaseInit.Do(func() {
		c.configUseCase, err = c.initConfigUseCase()
		if err != nil {
			c.initErrors["configUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["configUseCase"]; exists {
		return nil, storedErr
	}
	return c.configUseCase, nil
}

// ConfigHandler returns the HTTP handler for configuration management operations.
func (c *Container) ConfigHandler() (*issuanceHTTP.ConfigHandler, error) {
	var err error
	c.configHandlerInit.Do(func() {
		c.configHandler, err = c.initConfigHandler()
		if err != nil {
			c.initErrors["configHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["configHandler"]; exists {
		return nil, storedErr
	}
	return c.configHandler, nil
}

// initFieldCipher opens the configured secrets keeper for field encryption.
func (c *Container) initFieldCipher() (issuanceService.FieldCipher, error) {
	if c.config.KeeperURI == "" {
		return issuanceService.NewNoopFieldCipher(), nil
	}

	cipher, err := issuanceService.OpenFieldCipher(context.Background(), c.config.KeeperURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open field cipher: %w", err)
	}
	return cipher, nil
}

// initConfigCache creates the Redis-backed record cache when enabled.
func (c *Container) initConfigCache() issuanceService.ConfigCache {
	if !c.config.CacheEnabled {
		return issuanceService.NewNoopConfigCache()
	}

	// The client is kept on the container so Shutdown can close it
	c.redisClient = redis.NewClient(&redis.Options{
		Addr: c.config.CacheRedisAddr,
	})
	return issuanceService.NewRedisConfigCache(c.redisClient, c.config.CacheTTL)
}

// initConfigRepository creates the configuration repository based on the database driver.
func (c *Container) initConfigRepository() (issuanceUseCase.ConfigRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for config repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return issuanceRepository.NewMySQLConfigRepository(db), nil
	case "postgres":
		return issuanceRepository.NewPostgreSQLConfigRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initConfigUseCase creates the configuration use case with all its dependencies.
func (c *Container) initConfigUseCase() (issuanceUseCase.ConfigUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for config use case: %w", err)
	}

	configRepo, err := c.ConfigRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get config repository for config use case: %w", err)
	}

	fieldCipher, err := c.FieldCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get field cipher for config use case: %w", err)
	}

	eventRecorder, err := c.EventRecorder()
	if err != nil {
		return nil, fmt.Errorf("failed to get event recorder for config use case: %w", err)
	}

	useCase := issuanceUseCase.NewConfigUseCase(
		txManager,
		configRepo,
		fieldCipher,
		c.ConfigCache(),
		eventRecorder,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for config use case: %w", err)
		}
		useCase = issuanceUseCase.NewConfigUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initConfigHandler creates the configuration HTTP handler with all its dependencies.
func (c *Container) initConfigHandler() (*issuanceHTTP.ConfigHandler, error) {
	configUseCase, err := c.ConfigUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get config use case for config handler: %w", err)
	}

	return issuanceHTTP.NewConfigHandler(configUseCase, c.Logger()), nil
}
