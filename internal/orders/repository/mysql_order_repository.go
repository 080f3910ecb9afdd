package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/orderdesk/etransfer/internal/database"
	apperrors "github.com/orderdesk/etransfer/internal/errors"
	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
)

// MySQLOrderRepository implements Order persistence for MySQL databases.
type MySQLOrderRepository struct {
	db *sql.DB
}

// NewMySQLOrderRepository creates a new MySQL-backed order repository.
func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

// Create inserts a new order and fills in its assigned ID.
func (m *MySQLOrderRepository) Create(ctx context.Context, order *ordersDomain.Order) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO orders (external_order_id, status, total, customer_email, merchant_email,
			  date, customer_payment_email_sent, merchant_payment_email_sent, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		nullableString(order.ExternalOrderID),
		ordersDomain.NormalizeStatus(order.Status),
		order.Total,
		order.CustomerEmail,
		order.MerchantEmail,
		order.Date,
		order.CustomerPaymentEmailSent,
		order.MerchantPaymentEmailSent,
		time.Now().UTC(),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create order")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read inserted order id")
	}
	order.ID = id
	return nil
}

// Get retrieves an order by its ID.
func (m *MySQLOrderRepository) Get(ctx context.Context, id int64) (*ordersDomain.Order, error) {
	querier := database.GetTx(ctx, m.db)

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = ?`, orderColumns)

	order, err := scanOrder(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get order")
	}
	return order, nil
}

// List retrieves orders matching the filter, most recent first.
func (m *MySQLOrderRepository) List(
	ctx context.Context,
	filter ordersDomain.OrderFilter,
) ([]*ordersDomain.Order, error) {
	querier := database.GetTx(ctx, m.db)

	where, args := buildOrderFilter(filter, mysqlPlaceholder)

	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY date DESC`, orderColumns, where)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT ?"
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET ?"
	}

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list orders")
	}
	defer rows.Close()

	return collectOrders(rows)
}

// Update persists all mutable fields of the order.
// The DSN must set clientFoundRows=true so an identical row still counts as matched.
func (m *MySQLOrderRepository) Update(ctx context.Context, order *ordersDomain.Order) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE orders
			  SET external_order_id = ?, status = ?, total = ?, customer_email = ?,
				  merchant_email = ?, customer_payment_email_sent = ?,
				  merchant_payment_email_sent = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		nullableString(order.ExternalOrderID),
		ordersDomain.NormalizeStatus(order.Status),
		order.Total,
		order.CustomerEmail,
		order.MerchantEmail,
		order.CustomerPaymentEmailSent,
		order.MerchantPaymentEmailSent,
		time.Now().UTC(),
		order.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update order")
	}
	return requireRowAffected(result)
}

// Delete removes an order by its ID.
func (m *MySQLOrderRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete order")
	}
	return requireRowAffected(result)
}
