// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/orderdesk/etransfer/internal/config"
	"github.com/orderdesk/etransfer/internal/database"
	"github.com/orderdesk/etransfer/internal/http"
	"github.com/orderdesk/etransfer/internal/kms"
	"github.com/orderdesk/etransfer/internal/mailbox"
	merchantsUseCase "github.com/orderdesk/etransfer/internal/merchants/usecase"
	"github.com/orderdesk/etransfer/internal/metrics"
	"github.com/orderdesk/etransfer/internal/notification"
	ordersUseCase "github.com/orderdesk/etransfer/internal/orders/usecase"
	"github.com/orderdesk/etransfer/internal/poller"
	"github.com/orderdesk/etransfer/internal/reconcile"
	"github.com/orderdesk/etransfer/internal/storefront"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger    *slog.Logger
	db        *sql.DB
	kmsKeeper kms.Keeper

	// Managers
	txManager database.TxManager

	// Repositories
	orderRepo    ordersUseCase.OrderRepository
	merchantRepo merchantsUseCase.MerchantRepository

	// Use Cases
	orderUseCase    ordersUseCase.OrderUseCase
	merchantUseCase merchantsUseCase.UseCase

	// Reconciliation pipeline
	dispatcher       *notification.Dispatcher
	storefrontClient *storefront.Client
	engine           *reconcile.Engine
	mailboxManager   *mailbox.Manager
	statusPoller     *poller.Poller

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	kmsKeeperInit       sync.Once
	txManagerInit       sync.Once
	orderRepoInit       sync.Once
	merchantRepoInit    sync.Once
	orderUseCaseInit    sync.Once
	merchantUseCaseInit sync.Once
	dispatcherInit      sync.Once
	storefrontInit      sync.Once
	engineInit          sync.Once
	mailboxInit         sync.Once
	pollerInit          sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// KMSKeeper returns the credential decryption keeper, or nil when no
// KMS_KEY_URI is configured.
func (c *Container) KMSKeeper() (kms.Keeper, error) {
	var err error
	c.kmsKeeperInit.Do(func() {
		if c.config.KMSKeyURI == "" {
			return
		}
		c.kmsKeeper, err = kms.OpenKeeper(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			c.initErrors["kmsKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kmsKeeper"]; exists {
		return nil, storedErr
	}
	return c.kmsKeeper, nil
}

// resolveSecret returns the decrypted value of a KMS ciphertext setting, or
// the plaintext fallback when no ciphertext is configured.
func (c *Container) resolveSecret(plain, encrypted string) (string, error) {
	if encrypted == "" {
		return plain, nil
	}

	keeper, err := c.KMSKeeper()
	if err != nil {
		return "", err
	}
	if keeper == nil {
		return "", fmt.Errorf("encrypted credential configured but KMS_KEY_URI is not set")
	}

	decrypted, err := keeper.DecryptBase64(context.Background(), encrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt credential: %w", err)
	}
	return string(decrypted), nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP server if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	// Shutdown metrics server if initialized
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Drain detached reconciliation side effects before closing shared resources
	if c.engine != nil {
		c.engine.Wait()
	}

	// Shutdown metrics provider if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Close KMS keeper if initialized
	if c.kmsKeeper != nil {
		if err := c.kmsKeeper.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("kms keeper close: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}
