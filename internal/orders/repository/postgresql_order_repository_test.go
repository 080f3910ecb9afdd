package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/orderdesk/etransfer/internal/errors"
	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
)

func orderRows(orders ...*ordersDomain.Order) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "external_order_id", "status", "total", "customer_email", "merchant_email",
		"date", "customer_payment_email_sent", "merchant_payment_email_sent", "updated_at",
	})
	for _, o := range orders {
		rows.AddRow(
			o.ID, o.ExternalOrderID, o.Status, o.Total.String(), o.CustomerEmail,
			o.MerchantEmail, o.Date, o.CustomerPaymentEmailSent, o.MerchantPaymentEmailSent,
			o.UpdatedAt,
		)
	}
	return rows
}

func testOrder() *ordersDomain.Order {
	return &ordersDomain.Order{
		ID:              42,
		ExternalOrderID: "WC-1042",
		Status:          ordersDomain.StatusPending,
		Total:           decimal.RequireFromString("25.00"),
		CustomerEmail:   "buyer@example.com",
		MerchantEmail:   "shop@example.com",
		Date:            time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestPostgreSQLOrderRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLOrderRepository(db)
	order := testOrder()
	order.ID = 0

	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	err = repo.Create(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, int64(7), order.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLOrderRepository_Get(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLOrderRepository(db)
		want := testOrder()

		mock.ExpectQuery(`SELECT (.+) FROM orders WHERE id = \$1`).
			WithArgs(want.ID).
			WillReturnRows(orderRows(want))

		got, err := repo.Get(context.Background(), want.ID)
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.ExternalOrderID, got.ExternalOrderID)
		assert.True(t, want.Total.Equal(got.Total))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLOrderRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM orders WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnRows(orderRows())

		_, err = repo.Get(context.Background(), 99)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostgreSQLOrderRepository_List(t *testing.T) {
	t.Run("FilterByStatusAndTotal", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLOrderRepository(db)
		total := decimal.RequireFromString("25.00")

		mock.ExpectQuery(`SELECT (.+) FROM orders WHERE status = \$1 AND total = \$2 ORDER BY date DESC LIMIT \$3`).
			WithArgs(ordersDomain.StatusPending, total, 15).
			WillReturnRows(orderRows(testOrder()))

		got, err := repo.List(context.Background(), ordersDomain.OrderFilter{
			Status: ordersDomain.StatusPending,
			Total:  &total,
			Limit:  15,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(42), got[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ExcludeTerminalStatuses", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLOrderRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM orders WHERE status <> \$1 AND status <> \$2 ORDER BY date DESC LIMIT \$3`).
			WithArgs(ordersDomain.StatusCompleted, ordersDomain.StatusCancelled, 5).
			WillReturnRows(orderRows())

		got, err := repo.List(context.Background(), ordersDomain.OrderFilter{
			ExcludeStatuses: []string{ordersDomain.StatusCompleted, ordersDomain.StatusCancelled},
			Limit:           5,
		})
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLOrderRepository_Update(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLOrderRepository(db)
		order := testOrder()
		order.Status = ordersDomain.StatusCompleted

		mock.ExpectExec(`UPDATE orders`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(context.Background(), order))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingOrderReturnsNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLOrderRepository(db)

		mock.ExpectExec(`UPDATE orders`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Update(context.Background(), testOrder())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostgreSQLOrderRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLOrderRepository(db)

	mock.ExpectExec(`DELETE FROM orders WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}
