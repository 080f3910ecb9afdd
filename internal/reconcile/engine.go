package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/orderdesk/etransfer/internal/metrics"
	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
	ordersUseCase "github.com/orderdesk/etransfer/internal/orders/usecase"
)

// sideEffectTimeout bounds each detached notification/sync task so a stuck
// SMTP or storefront call cannot hold a goroutine forever.
const sideEffectTimeout = 30 * time.Second

// Engine applies parsed payment events to orders. It is the only component
// that changes order state from mail input: the matcher proposes, the
// configured confidence threshold gates, and the engine commits.
type Engine struct {
	matcher    OrderMatcher
	orders     ordersUseCase.OrderUseCase
	notifier   Notifier
	storefront StorefrontSyncer
	threshold  int
	metrics    metrics.BusinessMetrics
	logger     *slog.Logger

	// wg tracks detached side-effect tasks so Wait can drain them on shutdown.
	wg sync.WaitGroup
}

// NewEngine creates a new Engine. notifier and storefront may be nil, which
// disables the corresponding side effect.
func NewEngine(
	matcher OrderMatcher,
	orders ordersUseCase.OrderUseCase,
	notifier Notifier,
	storefront StorefrontSyncer,
	threshold int,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		matcher:    matcher,
		orders:     orders,
		notifier:   notifier,
		storefront: storefront,
		threshold:  threshold,
		metrics:    businessMetrics,
		logger:     logger,
	}
}

// Process reconciles one payment event against the order book. It returns
// applied=true only when an order status transition was persisted. Matching
// failures, below-threshold candidates and dismissed event types are normal
// outcomes, not errors; only persistence problems surface as err.
func (e *Engine) Process(ctx context.Context, event Event) (applied bool, err error) {
	start := time.Now()
	defer func() {
		e.metrics.RecordDuration(ctx, "reconcile", "process", time.Since(start), outcomeLabel(applied, err))
	}()

	logger := e.logger.With(
		slog.String("message_id", event.MessageID),
		slog.String("event_status", string(event.Status)),
		slog.Int64("amount_cents", event.AmountCents),
	)

	if event.AmountCents <= 0 {
		logger.Warn("payment event has no amount, skipping")
		e.metrics.RecordOperation(ctx, "reconcile", "process", "no_amount")
		return false, nil
	}

	result, err := e.matcher.FindMatch(ctx, event)
	if err != nil {
		e.metrics.RecordOperation(ctx, "reconcile", "process", "error")
		return false, err
	}
	if result == nil {
		logger.Warn("no matching order for payment event",
			slog.String("order_reference", event.OrderReference),
		)
		e.metrics.RecordOperation(ctx, "reconcile", "process", "unmatched")
		return false, nil
	}

	logger = logger.With(
		slog.Int64("order_id", result.Order.ID),
		slog.Int("confidence", result.Confidence),
	)
	if result.Confidence < e.threshold {
		logger.Warn("match confidence below threshold, manual review required",
			slog.Int("threshold", e.threshold),
		)
		e.metrics.RecordOperation(ctx, "reconcile", "process", "below_threshold")
		return false, nil
	}

	targetStatus, ok := targetOrderStatus(event.Status)
	if !ok {
		// Requested and cancelled notifications never change order state: a
		// request may still be deposited and a cancellation may be retried.
		// The log line carries the matched order and confidence so ambiguous
		// cancellations can be reviewed manually.
		logger.Info("event type does not trigger a transition")
		e.metrics.RecordOperation(ctx, "reconcile", "process", "no_transition")
		return false, nil
	}

	order, previous, applied, err := e.orders.UpdateStatus(ctx, result.Order.ID, targetStatus)
	if err != nil {
		e.metrics.RecordOperation(ctx, "reconcile", "process", "error")
		return false, err
	}
	if !applied {
		logger.Info("order already in target status", slog.String("status", targetStatus))
		e.metrics.RecordOperation(ctx, "reconcile", "process", "noop")
		return false, nil
	}

	logger.Info("order reconciled",
		slog.String("previous_status", previous),
		slog.String("status", order.Status),
	)
	e.metrics.RecordOperation(ctx, "reconcile", "process", "applied")
	e.dispatchSideEffects(order)
	return true, nil
}

// Wait blocks until all detached side-effect tasks have finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// dispatchSideEffects runs the payment emails and the storefront sync in the
// background. Side effects are best effort: their failures are logged, never
// propagated, and never roll back the already-persisted transition.
func (e *Engine) dispatchSideEffects(order *ordersDomain.Order) {
	if e.notifier != nil {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
			defer cancel()
			if err := e.notifier.DispatchPaymentNotifications(ctx, order.ID); err != nil {
				e.logger.Error("payment notification dispatch failed",
					slog.Int64("order_id", order.ID),
					slog.Any("error", err),
				)
			}
		}()
	}

	if e.storefront != nil && order.ExternalOrderID != "" {
		externalID, status := order.ExternalOrderID, order.Status
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
			defer cancel()
			if err := e.storefront.SyncOrderStatus(ctx, externalID, status); err != nil {
				e.logger.Error("storefront status sync failed",
					slog.Int64("order_id", order.ID),
					slog.String("external_order_id", externalID),
					slog.Any("error", err),
				)
			}
		}()
	}
}

// targetOrderStatus maps an event classification to the order status it
// commits. Only approved events transition orders.
func targetOrderStatus(status EventStatus) (string, bool) {
	if status == EventApproved {
		return ordersDomain.StatusCompleted, true
	}
	return "", false
}

func outcomeLabel(applied bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case applied:
		return "applied"
	default:
		return "skipped"
	}
}
