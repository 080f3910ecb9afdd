// Package repository implements order persistence for PostgreSQL and MySQL.
// Listing queries are always ordered most-recent-first because the matcher and
// the status-drift poller both rely on that ordering for tie-breaks.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/orderdesk/etransfer/internal/database"
	apperrors "github.com/orderdesk/etransfer/internal/errors"
	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
)

const orderColumns = `id, external_order_id, status, total, customer_email, merchant_email,
	date, customer_payment_email_sent, merchant_payment_email_sent, updated_at`

// PostgreSQLOrderRepository implements Order persistence for PostgreSQL databases.
type PostgreSQLOrderRepository struct {
	db *sql.DB
}

// NewPostgreSQLOrderRepository creates a new PostgreSQL-backed order repository.
func NewPostgreSQLOrderRepository(db *sql.DB) *PostgreSQLOrderRepository {
	return &PostgreSQLOrderRepository{db: db}
}

// Create inserts a new order and fills in its assigned ID.
func (p *PostgreSQLOrderRepository) Create(ctx context.Context, order *ordersDomain.Order) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO orders (external_order_id, status, total, customer_email, merchant_email,
			  date, customer_payment_email_sent, merchant_payment_email_sent, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`

	err := querier.QueryRowContext(
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
	).Scan(&order.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create order")
	}
	return nil
}

// Get retrieves an order by its ID.
func (p *PostgreSQLOrderRepository) Get(ctx context.Context, id int64) (*ordersDomain.Order, error) {
	querier := database.GetTx(ctx, p.db)

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

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
func (p *PostgreSQLOrderRepository) List(
	ctx context.Context,
	filter ordersDomain.OrderFilter,
) ([]*ordersDomain.Order, error) {
	querier := database.GetTx(ctx, p.db)

	where, args := buildOrderFilter(filter, postgresPlaceholder)

	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY date DESC`, orderColumns, where)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list orders")
	}
	defer rows.Close()

	return collectOrders(rows)
}

// Update persists all mutable fields of the order.
func (p *PostgreSQLOrderRepository) Update(ctx context.Context, order *ordersDomain.Order) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE orders
			  SET external_order_id = $1, status = $2, total = $3, customer_email = $4,
				  merchant_email = $5, customer_payment_email_sent = $6,
				  merchant_payment_email_sent = $7, updated_at = $8
			  WHERE id = $9`

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
func (p *PostgreSQLOrderRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete order")
	}
	return requireRowAffected(result)
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanOrder.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*ordersDomain.Order, error) {
	var order ordersDomain.Order
	var externalOrderID sql.NullString

	err := row.Scan(
		&order.ID,
		&externalOrderID,
		&order.Status,
		&order.Total,
		&order.CustomerEmail,
		&order.MerchantEmail,
		&order.Date,
		&order.CustomerPaymentEmailSent,
		&order.MerchantPaymentEmailSent,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.ExternalOrderID = externalOrderID.String
	return &order, nil
}

func collectOrders(rows *sql.Rows) ([]*ordersDomain.Order, error) {
	var orders []*ordersDomain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan order")
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate orders")
	}
	return orders, nil
}

// placeholderFunc renders the placeholder for the n-th (1-based) argument.
type placeholderFunc func(n int) string

func postgresPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

func mysqlPlaceholder(int) string { return "?" }

// buildOrderFilter renders a WHERE clause (with leading space) and its arguments.
func buildOrderFilter(filter ordersDomain.OrderFilter, placeholder placeholderFunc) (string, []any) {
	var conditions []string
	var args []any

	next := func() string {
		return placeholder(len(args))
	}

	if filter.Status != "" {
		args = append(args, ordersDomain.NormalizeStatus(filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = %s", next()))
	}
	if filter.Total != nil {
		args = append(args, *filter.Total)
		conditions = append(conditions, fmt.Sprintf("total = %s", next()))
	}
	if filter.ExternalOrderID != "" {
		args = append(args, filter.ExternalOrderID)
		conditions = append(conditions, fmt.Sprintf("external_order_id = %s", next()))
	}
	if filter.CustomerEmail != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(filter.CustomerEmail)))
		conditions = append(conditions, fmt.Sprintf("LOWER(customer_email) = %s", next()))
	}
	for _, status := range filter.ExcludeStatuses {
		args = append(args, ordersDomain.NormalizeStatus(status))
		conditions = append(conditions, fmt.Sprintf("status <> %s", next()))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
