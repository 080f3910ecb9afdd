package usecase

import (
	"context"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	databaseMocks "github.com/orderdesk/etransfer/internal/database/mocks"
	apperrors "github.com/orderdesk/etransfer/internal/errors"
	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
	ordersMocks "github.com/orderdesk/etransfer/internal/orders/usecase/mocks"
)

func newTestUseCase(repo *ordersMocks.MockOrderRepository) OrderUseCase {
	logger := slog.New(slog.DiscardHandler)
	return NewOrderUseCase(databaseMocks.PassthroughTxManager{}, repo, logger)
}

func TestOrderUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultsStatusAndDate", func(t *testing.T) {
		repo := new(ordersMocks.MockOrderRepository)
		uc := newTestUseCase(repo)

		order := &ordersDomain.Order{
			CustomerEmail: "buyer@example.com",
			Total:         decimal.RequireFromString("10.00"),
		}
		repo.On("Create", ctx, order).Return(nil)

		require.NoError(t, uc.Create(ctx, order))
		assert.Equal(t, ordersDomain.StatusPending, order.Status)
		assert.False(t, order.Date.IsZero())
		repo.AssertExpectations(t)
	})

	t.Run("RejectsMissingCustomerEmail", func(t *testing.T) {
		repo := new(ordersMocks.MockOrderRepository)
		uc := newTestUseCase(repo)

		err := uc.Create(ctx, &ordersDomain.Order{Total: decimal.Zero})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("RejectsNegativeTotal", func(t *testing.T) {
		repo := new(ordersMocks.MockOrderRepository)
		uc := newTestUseCase(repo)

		err := uc.Create(ctx, &ordersDomain.Order{
			CustomerEmail: "buyer@example.com",
			Total:         decimal.RequireFromString("-1.00"),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestOrderUseCase_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("AppliesTransition", func(t *testing.T) {
		repo := new(ordersMocks.MockOrderRepository)
		uc := newTestUseCase(repo)

		stored := &ordersDomain.Order{ID: 42, Status: ordersDomain.StatusPending}
		repo.On("Get", mock.Anything, int64(42)).Return(stored, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(o *ordersDomain.Order) bool {
			return o.Status == ordersDomain.StatusCompleted
		})).Return(nil)

		order, previous, applied, err := uc.UpdateStatus(ctx, 42, "Completed")
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, ordersDomain.StatusPending, previous)
		assert.Equal(t, ordersDomain.StatusCompleted, order.Status)
		repo.AssertExpectations(t)
	})

	t.Run("SameStatusIsNoOp", func(t *testing.T) {
		repo := new(ordersMocks.MockOrderRepository)
		uc := newTestUseCase(repo)

		stored := &ordersDomain.Order{ID: 42, Status: ordersDomain.StatusCompleted}
		repo.On("Get", mock.Anything, int64(42)).Return(stored, nil)

		_, previous, applied, err := uc.UpdateStatus(ctx, 42, "completed")
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, ordersDomain.StatusCompleted, previous)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("PropagatesNotFound", func(t *testing.T) {
		repo := new(ordersMocks.MockOrderRepository)
		uc := newTestUseCase(repo)

		repo.On("Get", mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound)

		_, _, _, err := uc.UpdateStatus(ctx, 99, "completed")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("RejectsEmptyStatus", func(t *testing.T) {
		repo := new(ordersMocks.MockOrderRepository)
		uc := newTestUseCase(repo)

		_, _, _, err := uc.UpdateStatus(ctx, 42, "  ")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
