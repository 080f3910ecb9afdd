package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
)

// MockOrderUseCase is a mock implementation of OrderUseCase for testing.
type MockOrderUseCase struct {
	mock.Mock
}

// Create mocks the Create method of OrderUseCase.
func (m *MockOrderUseCase) Create(ctx context.Context, order *ordersDomain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// Get mocks the Get method of OrderUseCase.
func (m *MockOrderUseCase) Get(ctx context.Context, id int64) (*ordersDomain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordersDomain.Order), args.Error(1)
}

// List mocks the List method of OrderUseCase.
func (m *MockOrderUseCase) List(
	ctx context.Context,
	filter ordersDomain.OrderFilter,
) ([]*ordersDomain.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ordersDomain.Order), args.Error(1)
}

// UpdateStatus mocks the UpdateStatus method of OrderUseCase.
func (m *MockOrderUseCase) UpdateStatus(
	ctx context.Context,
	id int64,
	status string,
) (*ordersDomain.Order, string, bool, error) {
	args := m.Called(ctx, id, status)
	var order *ordersDomain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*ordersDomain.Order)
	}
	return order, args.String(1), args.Bool(2), args.Error(3)
}

// Delete mocks the Delete method of OrderUseCase.
func (m *MockOrderUseCase) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
