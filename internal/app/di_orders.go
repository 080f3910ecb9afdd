package app

import (
	"fmt"

	ordersRepository "github.com/orderdesk/etransfer/internal/orders/repository"
	ordersUseCase "github.com/orderdesk/etransfer/internal/orders/usecase"
)

// OrderRepository returns the order repository instance.
func (c *Container) OrderRepository() (ordersUseCase.OrderRepository, error) {
	var err error
	c.orderRepoInit.Do(func() {
		c.orderRepo, err = c.initOrderRepository()
		if err != nil {
			c.initErrors["orderRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["orderRepo"]; exists {
		return nil, storedErr
	}
	return c.orderRepo, nil
}

// OrderUseCase returns the order use case instance.
func (c *Container) OrderUseCase() (ordersUseCase.OrderUseCase, error) {
	var err error
	c.orderUseCaseInit.Do(func() {
		c.orderUseCase, err = c.initOrderUseCase()
		if err != nil {
			c.initErrors["orderUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["orderUseCase"]; exists {
		return nil, storedErr
	}
	return c.orderUseCase, nil
}

// initOrderRepository creates the order repository instance.
func (c *Container) initOrderRepository() (ordersUseCase.OrderRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for order repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return ordersRepository.NewMySQLOrderRepository(db), nil
	case "postgres":
		return ordersRepository.NewPostgreSQLOrderRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initOrderUseCase creates the order use case with all its dependencies.
func (c *Container) initOrderUseCase() (ordersUseCase.OrderUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for order use case: %w", err)
	}

	orderRepo, err := c.OrderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get order repository for order use case: %w", err)
	}

	return ordersUseCase.NewOrderUseCase(txManager, orderRepo, c.Logger()), nil
}
