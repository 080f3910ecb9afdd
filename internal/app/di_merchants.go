package app

import (
	"fmt"

	merchantsRepository "github.com/orderdesk/etransfer/internal/merchants/repository"
	merchantsService "github.com/orderdesk/etransfer/internal/merchants/service"
	merchantsUseCase "github.com/orderdesk/etransfer/internal/merchants/usecase"
)

// MerchantRepository returns the merchant repository instance.
func (c *Container) MerchantRepository() (merchantsUseCase.MerchantRepository, error) {
	var err error
	c.merchantRepoInit.Do(func() {
		c.merchantRepo, err = c.initMerchantRepository()
		if err != nil {
			c.initErrors["merchantRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["merchantRepo"]; exists {
		return nil, storedErr
	}
	return c.merchantRepo, nil
}

// MerchantUseCase returns the merchant use case instance.
func (c *Container) MerchantUseCase() (merchantsUseCase.UseCase, error) {
	var err error
	c.merchantUseCaseInit.Do(func() {
		c.merchantUseCase, err = c.initMerchantUseCase()
		if err != nil {
			c.initErrors["merchantUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["merchantUseCase"]; exists {
		return nil, storedErr
	}
	return c.merchantUseCase, nil
}

// initMerchantRepository creates the merchant repository instance.
func (c *Container) initMerchantRepository() (merchantsUseCase.MerchantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for merchant repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return merchantsRepository.NewMySQLMerchantRepository(db), nil
	case "postgres":
		return merchantsRepository.NewPostgreSQLMerchantRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initMerchantUseCase creates the merchant use case with all its dependencies.
func (c *Container) initMerchantUseCase() (merchantsUseCase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for merchant use case: %w", err)
	}

	merchantRepo, err := c.MerchantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant repository for merchant use case: %w", err)
	}

	return merchantsUseCase.NewMerchantUseCase(
		txManager,
		merchantRepo,
		merchantsService.NewLicenseService(),
	), nil
}
