package poller

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/orderdesk/etransfer/internal/errors"
	"github.com/orderdesk/etransfer/internal/metrics"
	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
	ordersUseCase "github.com/orderdesk/etransfer/internal/orders/usecase"
	"github.com/orderdesk/etransfer/internal/reconcile"
)

// Config holds poller settings.
type Config struct {
	// Interval is the tick interval.
	Interval time.Duration
	// Window is the number of most recent non-terminal orders monitored per
	// tick.
	Window int
}

// Poller watches for order status changes made outside the mail path (admin
// edits, other processes) and routes them through the same notification
// dispatch as the reconciliation engine.
type Poller struct {
	orders   ordersUseCase.OrderRepository
	notifier reconcile.Notifier
	cache    *StatusCache
	config   Config
	metrics  metrics.BusinessMetrics
	logger   *slog.Logger

	// ticking guards against overlapping ticks: a tick that fires while the
	// previous one still runs is skipped, not queued.
	ticking atomic.Bool
}

// NewPoller creates a new Poller.
func NewPoller(
	orders ordersUseCase.OrderRepository,
	notifier reconcile.Notifier,
	cache *StatusCache,
	config Config,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		orders:   orders,
		notifier: notifier,
		cache:    cache,
		config:   config,
		metrics:  businessMetrics,
		logger:   logger,
	}
}

// Run ticks at the configured interval until the context is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	p.logger.Info("status-drift poller started",
		slog.Duration("interval", p.config.Interval),
		slog.Int("window", p.config.Window),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick runs one poll pass. Overlapping calls are skipped.
func (p *Poller) Tick(ctx context.Context) {
	if !p.ticking.CompareAndSwap(false, true) {
		p.logger.Debug("previous poll still running, skipping tick")
		p.metrics.RecordOperation(ctx, "poller", "tick", "skipped")
		return
	}
	defer p.ticking.Store(false)

	if err := p.poll(ctx); err != nil {
		p.logger.Error("poll failed", slog.Any("error", err))
		p.metrics.RecordOperation(ctx, "poller", "tick", "error")
		return
	}
	p.metrics.RecordOperation(ctx, "poller", "tick", "success")
}

func (p *Poller) poll(ctx context.Context) error {
	window, err := p.orders.List(ctx, ordersDomain.OrderFilter{
		ExcludeStatuses: ordersDomain.TerminalStatuses(),
		Limit:           p.config.Window,
	})
	if err != nil {
		return errors.Wrap(err, "failed to fetch monitored orders")
	}

	windowed := make(map[int64]bool, len(window))
	for _, order := range window {
		windowed[order.ID] = true
		p.observe(ctx, order)
	}

	// Cached orders that fell out of the window get one final look: a
	// transition to terminal still deserves its notification, then the entry
	// is forgotten either way.
	for _, id := range p.cache.IDs() {
		if windowed[id] {
			continue
		}
		p.resolveDeparted(ctx, id)
	}
	return nil
}

// observe diffs one windowed order against the cache. Notifications fire only
// on a transition from a known previous status, never on first sight.
func (p *Poller) observe(ctx context.Context, order *ordersDomain.Order) {
	status := ordersDomain.NormalizeStatus(order.Status)
	previous, known := p.cache.Get(order.ID)
	if known && previous != status {
		p.notifyDrift(ctx, order, previous, status)
	}
	p.cache.Set(order.ID, status)
}

// resolveDeparted re-fetches a cached order that left the window and evicts it.
func (p *Poller) resolveDeparted(ctx context.Context, orderID int64) {
	defer p.cache.Delete(orderID)

	order, err := p.orders.Get(ctx, orderID)
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			p.logger.Warn("failed to re-fetch departed order",
				slog.Int64("order_id", orderID),
				slog.Any("error", err),
			)
		}
		return
	}

	status := ordersDomain.NormalizeStatus(order.Status)
	previous, known := p.cache.Get(orderID)
	if known && previous != status && ordersDomain.IsTerminalStatus(status) {
		p.notifyDrift(ctx, order, previous, status)
	}
}

func (p *Poller) notifyDrift(
	ctx context.Context,
	order *ordersDomain.Order,
	previous, current string,
) {
	p.logger.Info("order status drift detected",
		slog.Int64("order_id", order.ID),
		slog.String("previous_status", previous),
		slog.String("status", current),
	)
	p.metrics.RecordOperation(ctx, "poller", "drift", "detected")

	if err := p.notifier.DispatchPaymentNotifications(ctx, order.ID); err != nil {
		p.logger.Error("drift notification dispatch failed",
			slog.Int64("order_id", order.ID),
			slog.Any("error", err),
		)
	}
}
