// Package http provides the HTTP API server implementation.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	merchantsHTTP "github.com/orderdesk/etransfer/internal/merchants/http"
	merchantsUseCase "github.com/orderdesk/etransfer/internal/merchants/usecase"
	"github.com/orderdesk/etransfer/internal/metrics"
	ordersHTTP "github.com/orderdesk/etransfer/internal/orders/http"
)

// readinessTimeout bounds the database ping during readiness checks.
const readinessTimeout = 2 * time.Second

// RouteConfig bundles the handlers and middleware settings for the v1 API.
type RouteConfig struct {
	OrderHandler    *ordersHTTP.OrderHandler
	MerchantHandler *merchantsHTTP.MerchantHandler
	// MerchantUseCase backs the license authentication on the orders API.
	MerchantUseCase merchantsUseCase.UseCase

	// CORS configuration. Disabled by default; the API is designed for
	// server-to-server use by storefront plugins.
	CORSEnabled      bool
	CORSAllowOrigins string

	// Per-merchant rate limiting on the orders API. Zero disables it.
	RateLimitRPS   float64
	RateLimitBurst int

	// MeterProvider enables HTTP request metrics when set.
	MetricsProvider *metrics.Provider
	// MetricsNamespace prefixes metric names (e.g., "etransfer").
	MetricsNamespace string
}

// Server represents the HTTP API server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP server with the base middleware chain.
// The database handle is used for readiness checks and may be nil in tests.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))

	s := &Server{
		router: router,
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	return s
}

// RegisterRoutes mounts the v1 API on the server's router.
//
// The orders API is authenticated by merchant license key so storefront
// plugins can create and track orders. The merchants API is an operator
// surface and carries no license authentication; deploy it behind network
// controls.
func (s *Server) RegisterRoutes(cfg RouteConfig) {
	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		s.router.Use(corsMiddleware)
	}

	if cfg.MetricsProvider != nil {
		s.router.Use(metrics.HTTPMetricsMiddleware(
			cfg.MetricsProvider.MeterProvider(),
			cfg.MetricsNamespace,
		))
	}

	v1 := s.router.Group("/v1")

	if cfg.OrderHandler != nil {
		orders := v1.Group("/orders")
		orders.Use(merchantsHTTP.LicenseAuthMiddleware(cfg.MerchantUseCase, s.logger))
		if cfg.RateLimitRPS > 0 {
			orders.Use(merchantsHTTP.RateLimitMiddleware(
				cfg.RateLimitRPS,
				cfg.RateLimitBurst,
				s.logger,
			))
		}
		orders.POST("", cfg.OrderHandler.CreateHandler)
		orders.GET("", cfg.OrderHandler.ListHandler)
		orders.GET("/:id", cfg.OrderHandler.GetHandler)
		orders.PATCH("/:id/status", cfg.OrderHandler.UpdateStatusHandler)
		orders.DELETE("/:id", cfg.OrderHandler.DeleteHandler)
	}

	if cfg.MerchantHandler != nil {
		merchants := v1.Group("/merchants")
		merchants.POST("", cfg.MerchantHandler.RegisterHandler)
		merchants.GET("", cfg.MerchantHandler.ListHandler)
		merchants.GET("/:id", cfg.MerchantHandler.GetHandler)
		merchants.PATCH("/:id/active", cfg.MerchantHandler.SetActiveHandler)
		merchants.POST("/:id/rotate-key", cfg.MerchantHandler.RotateLicenseKeyHandler)
		merchants.DELETE("/:id", cfg.MerchantHandler.DeleteHandler)
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic. The database
// must be reachable for the server to be ready.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			components["database"] = "error"
			ready = false
		} else {
			components["database"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}
