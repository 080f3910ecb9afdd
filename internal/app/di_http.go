package app

import (
	"fmt"

	"github.com/orderdesk/etransfer/internal/http"
	merchantsHTTP "github.com/orderdesk/etransfer/internal/merchants/http"
	"github.com/orderdesk/etransfer/internal/metrics"
	ordersHTTP "github.com/orderdesk/etransfer/internal/orders/http"
)

// MetricsProvider returns the Prometheus metrics provider, or nil when
// metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}

		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}

		c.businessMetrics, err = metrics.NewBusinessMetrics(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
		)
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the HTTP server instance with all routes registered.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server instance.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// initHTTPServer creates the HTTP server with all handlers wired in.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	orderUseCase, err := c.OrderUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get order use case for http server: %w", err)
	}

	merchantUseCase, err := c.MerchantUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant use case for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())

	routeConfig := http.RouteConfig{
		OrderHandler:     ordersHTTP.NewOrderHandler(orderUseCase, c.Logger()),
		MerchantHandler:  merchantsHTTP.NewMerchantHandler(merchantUseCase, c.Logger()),
		MerchantUseCase:  merchantUseCase,
		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.CORSAllowOrigins,
		MetricsProvider:  metricsProvider,
		MetricsNamespace: c.config.MetricsNamespace,
	}
	if c.config.RateLimitEnabled {
		routeConfig.RateLimitRPS = c.config.RateLimitRequestsPerSec
		routeConfig.RateLimitBurst = c.config.RateLimitBurst
	}

	server.RegisterRoutes(routeConfig)

	return server, nil
}
