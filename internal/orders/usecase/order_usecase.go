package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/orderdesk/etransfer/internal/database"
	apperrors "github.com/orderdesk/etransfer/internal/errors"
	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
)

// orderUseCase implements OrderUseCase on top of an OrderRepository.
type orderUseCase struct {
	txManager database.TxManager
	orderRepo OrderRepository
	logger    *slog.Logger
}

// NewOrderUseCase creates a new OrderUseCase.
func NewOrderUseCase(
	txManager database.TxManager,
	orderRepo OrderRepository,
	logger *slog.Logger,
) OrderUseCase {
	return &orderUseCase{
		txManager: txManager,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// Create validates and persists a new order. Orders default to pending status
// and the current time when status or date are unset.
func (u *orderUseCase) Create(ctx context.Context, order *ordersDomain.Order) error {
	if order.CustomerEmail == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "customer email is required")
	}
	if order.Total.IsNegative() {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "total cannot be negative")
	}

	if order.Status == "" {
		order.Status = ordersDomain.StatusPending
	}
	if order.Date.IsZero() {
		order.Date = time.Now().UTC()
	}

	return u.orderRepo.Create(ctx, order)
}

// Get retrieves an order by its ID.
func (u *orderUseCase) Get(ctx context.Context, id int64) (*ordersDomain.Order, error) {
	return u.orderRepo.Get(ctx, id)
}

// List retrieves orders matching the filter, most recent first.
func (u *orderUseCase) List(
	ctx context.Context,
	filter ordersDomain.OrderFilter,
) ([]*ordersDomain.Order, error) {
	return u.orderRepo.List(ctx, filter)
}

// UpdateStatus transitions the order to the given status.
//
// The read-modify-write runs inside a transaction so a concurrent transition
// to the same status collapses into a no-op instead of firing twice.
func (u *orderUseCase) UpdateStatus(
	ctx context.Context,
	id int64,
	status string,
) (*ordersDomain.Order, string, bool, error) {
	target := ordersDomain.NormalizeStatus(status)
	if target == "" {
		return nil, "", false, apperrors.Wrap(apperrors.ErrInvalidInput, "status is required")
	}

	var order *ordersDomain.Order
	var previousStatus string
	var applied bool

	err := u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		current, err := u.orderRepo.Get(txCtx, id)
		if err != nil {
			return err
		}

		previousStatus = ordersDomain.NormalizeStatus(current.Status)
		if previousStatus == target {
			// Duplicate transition, normal outcome.
			order = current
			return nil
		}

		current.Status = target
		if err := u.orderRepo.Update(txCtx, current); err != nil {
			return err
		}

		order = current
		applied = true
		return nil
	})
	if err != nil {
		return nil, "", false, err
	}

	if applied {
		u.logger.Info("order status updated",
			slog.Int64("order_id", id),
			slog.String("from", previousStatus),
			slog.String("to", target),
		)
	}
	return order, previousStatus, applied, nil
}

// Delete removes an order by its ID.
func (u *orderUseCase) Delete(ctx context.Context, id int64) error {
	return u.orderRepo.Delete(ctx, id)
}
