package app

import (
	"fmt"

	"github.com/orderdesk/etransfer/internal/mailbox"
	"github.com/orderdesk/etransfer/internal/notification"
	"github.com/orderdesk/etransfer/internal/poller"
	"github.com/orderdesk/etransfer/internal/reconcile"
	"github.com/orderdesk/etransfer/internal/storefront"
)

// Dispatcher returns the payment notification dispatcher.
func (c *Container) Dispatcher() (*notification.Dispatcher, error) {
	var err error
	c.dispatcherInit.Do(func() {
		c.dispatcher, err = c.initDispatcher()
		if err != nil {
			c.initErrors["dispatcher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dispatcher"]; exists {
		return nil, storedErr
	}
	return c.dispatcher, nil
}

// StorefrontClient returns the storefront sync client, or nil when no
// storefront base URL is configured.
func (c *Container) StorefrontClient() (*storefront.Client, error) {
	var err error
	c.storefrontInit.Do(func() {
		if c.config.StorefrontBaseURL == "" {
			return
		}
		c.storefrontClient, err = c.initStorefrontClient()
		if err != nil {
			c.initErrors["storefrontClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["storefrontClient"]; exists {
		return nil, storedErr
	}
	return c.storefrontClient, nil
}

// Engine returns the reconciliation engine.
func (c *Container) Engine() (*reconcile.Engine, error) {
	var err error
	c.engineInit.Do(func() {
		c.engine, err = c.initEngine()
		if err != nil {
			c.initErrors["engine"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["engine"]; exists {
		return nil, storedErr
	}
	return c.engine, nil
}

// MailboxManager returns the IMAP mailbox manager feeding the engine.
func (c *Container) MailboxManager() (*mailbox.Manager, error) {
	var err error
	c.mailboxInit.Do(func() {
		c.mailboxManager, err = c.initMailboxManager()
		if err != nil {
			c.initErrors["mailboxManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["mailboxManager"]; exists {
		return nil, storedErr
	}
	return c.mailboxManager, nil
}

// StatusPoller returns the status-drift poller.
func (c *Container) StatusPoller() (*poller.Poller, error) {
	var err error
	c.pollerInit.Do(func() {
		c.statusPoller, err = c.initStatusPoller()
		if err != nil {
			c.initErrors["statusPoller"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["statusPoller"]; exists {
		return nil, storedErr
	}
	return c.statusPoller, nil
}

// initDispatcher creates the notification dispatcher with an SMTP mailer.
func (c *Container) initDispatcher() (*notification.Dispatcher, error) {
	orderRepo, err := c.OrderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get order repository for dispatcher: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for dispatcher: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for dispatcher: %w", err)
	}

	smtpPassword, err := c.resolveSecret(c.config.SMTPPassword, c.config.SMTPPasswordEncrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve smtp password: %w", err)
	}

	mailer := notification.NewSMTPMailer(notification.SMTPConfig{
		Host:     c.config.SMTPHost,
		Port:     c.config.SMTPPort,
		Username: c.config.SMTPUsername,
		Password: smtpPassword,
		From:     c.config.SMTPFrom,
	})

	return notification.NewDispatcher(orderRepo, txManager, mailer, businessMetrics, c.Logger()), nil
}

// initStorefrontClient creates the storefront sync client.
func (c *Container) initStorefrontClient() (*storefront.Client, error) {
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for storefront client: %w", err)
	}

	password, err := c.resolveSecret(
		c.config.StorefrontPassword,
		c.config.StorefrontPasswordEncrypted,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storefront password: %w", err)
	}

	return storefront.NewClient(storefront.Config{
		BaseURL:        c.config.StorefrontBaseURL,
		Username:       c.config.StorefrontUsername,
		Password:       password,
		Timeout:        c.config.StorefrontTimeout,
		MaxRetries:     c.config.StorefrontMaxRetries,
		RetryBaseDelay: c.config.StorefrontRetryBaseDelay,
	}, businessMetrics, c.Logger()), nil
}

// initEngine creates the reconciliation engine with all its dependencies.
func (c *Container) initEngine() (*reconcile.Engine, error) {
	orderRepo, err := c.OrderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get order repository for engine: %w", err)
	}

	orderUseCase, err := c.OrderUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get order use case for engine: %w", err)
	}

	dispatcher, err := c.Dispatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to get dispatcher for engine: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for engine: %w", err)
	}

	matcher := reconcile.NewMatcher(orderRepo, c.Logger())

	// A nil storefront client disables the sync side effect.
	storefrontClient, err := c.StorefrontClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get storefront client for engine: %w", err)
	}

	var syncer reconcile.StorefrontSyncer
	if storefrontClient != nil {
		syncer = storefrontClient
	}

	return reconcile.NewEngine(
		matcher,
		orderUseCase,
		dispatcher,
		syncer,
		c.config.ConfidenceThreshold,
		businessMetrics,
		c.Logger(),
	), nil
}

// initMailboxManager creates the IMAP manager wired to the reconciliation engine.
func (c *Container) initMailboxManager() (*mailbox.Manager, error) {
	engine, err := c.Engine()
	if err != nil {
		return nil, fmt.Errorf("failed to get engine for mailbox manager: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for mailbox manager: %w", err)
	}

	mailPassword, err := c.resolveSecret(c.config.MailPassword, c.config.MailPasswordEncrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mail password: %w", err)
	}

	dialer := mailbox.NewIMAPDialer(mailbox.DialerConfig{
		Host:     c.config.MailHost,
		Port:     c.config.MailPort,
		Username: c.config.MailUsername,
		Password: mailPassword,
		TLS:      c.config.MailTLS,
	})

	parser := reconcile.NewParser(c.config.ServiceDomains())
	handler := reconcile.NewMailHandler(parser, engine, c.Logger())

	return mailbox.NewManager(dialer, handler, mailbox.ManagerConfig{
		Mailbox:              c.config.MailMailbox,
		AllowedSenderDomains: c.config.AllowedSenderDomains(),
		ReconnectBaseDelay:   c.config.ReconnectBaseDelay,
		ReconnectMaxDelay:    c.config.ReconnectMaxDelay,
		ReconnectMaxAttempts: c.config.ReconnectMaxAttempts,
	}, businessMetrics, c.Logger()), nil
}

// initStatusPoller creates the status-drift poller.
func (c *Container) initStatusPoller() (*poller.Poller, error) {
	orderRepo, err := c.OrderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get order repository for poller: %w", err)
	}

	dispatcher, err := c.Dispatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to get dispatcher for poller: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for poller: %w", err)
	}

	return poller.NewPoller(
		orderRepo,
		dispatcher,
		poller.NewStatusCache(),
		poller.Config{
			Interval: c.config.PollInterval,
			Window:   c.config.PollWindow,
		},
		businessMetrics,
		c.Logger(),
	), nil
}
