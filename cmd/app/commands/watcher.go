package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/orderdesk/etransfer/internal/app"
	"github.com/orderdesk/etransfer/internal/config"
	"github.com/orderdesk/etransfer/internal/mailbox"
)

// RunWatcher starts the payment-notification mailbox watcher and the
// status-drift poller. Both run until SIGINT/SIGTERM. When the mailbox
// manager exhausts its reconnect attempts, mail ingestion stops but the
// poller keeps running until the process is restarted.
func RunWatcher(ctx context.Context, version string) error {
	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()
	logger.Info("starting watcher", slog.String("version", version))

	// Ensure cleanup on exit; this also drains the engine's detached side effects
	defer closeContainer(container, logger)

	manager, err := container.MailboxManager()
	if err != nil {
		return fmt.Errorf("failed to initialize mailbox manager: %w", err)
	}

	statusPoller, err := container.StatusPoller()
	if err != nil {
		return fmt.Errorf("failed to initialize status poller: %w", err)
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return runMailbox(groupCtx, manager, logger)
	})

	group.Go(func() error {
		if err := statusPoller.Run(groupCtx); err != nil && groupCtx.Err() == nil {
			return fmt.Errorf("status poller error: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	logger.Info("watcher stopped")
	return nil
}

// runMailbox runs the mailbox manager for the watcher process. Exhausting the
// reconnect cap is terminal for mail ingestion but must not take the rest of
// the process down, so it is logged instead of being fed to the errgroup.
func runMailbox(ctx context.Context, manager *mailbox.Manager, logger *slog.Logger) error {
	err := manager.Run(ctx)
	switch {
	case err == nil || ctx.Err() != nil:
		return nil
	case errors.Is(err, mailbox.ErrRetriesExhausted):
		logger.Error("mail ingestion stopped, restart the process to resume",
			slog.Any("error", err),
		)
		return nil
	default:
		return fmt.Errorf("mailbox manager error: %w", err)
	}
}
