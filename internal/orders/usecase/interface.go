// Package usecase defines the interfaces and implementations for order
// management business logic shared by the HTTP API and the reconciliation engine.
package usecase

import (
	"context"

	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
)

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, order *ordersDomain.Order) error
	Get(ctx context.Context, id int64) (*ordersDomain.Order, error)
	List(ctx context.Context, filter ordersDomain.OrderFilter) ([]*ordersDomain.Order, error)
	Update(ctx context.Context, order *ordersDomain.Order) error
	Delete(ctx context.Context, id int64) error
}

// OrderUseCase defines the interface for order management business logic.
type OrderUseCase interface {
	Create(ctx context.Context, order *ordersDomain.Order) error
	Get(ctx context.Context, id int64) (*ordersDomain.Order, error)
	List(ctx context.Context, filter ordersDomain.OrderFilter) ([]*ordersDomain.Order, error)
	// UpdateStatus transitions the order to the given status and returns the
	// updated order plus its previous status. Transitioning to the current
	// status is a no-op and reports applied=false.
	UpdateStatus(ctx context.Context, id int64, status string) (order *ordersDomain.Order, previousStatus string, applied bool, err error)
	Delete(ctx context.Context, id int64) error
}
