// Package mocks provides mock implementations for testing order consumers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
)

// MockOrderRepository is a mock implementation of OrderRepository for testing.
type MockOrderRepository struct {
	mock.Mock
}

// Create mocks the Create method of OrderRepository.
func (m *MockOrderRepository) Create(ctx context.Context, order *ordersDomain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// Get mocks the Get method of OrderRepository.
func (m *MockOrderRepository) Get(ctx context.Context, id int64) (*ordersDomain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordersDomain.Order), args.Error(1)
}

// List mocks the List method of OrderRepository.
func (m *MockOrderRepository) List(
	ctx context.Context,
	filter ordersDomain.OrderFilter,
) ([]*ordersDomain.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ordersDomain.Order), args.Error(1)
}

// Update mocks the Update method of OrderRepository.
func (m *MockOrderRepository) Update(ctx context.Context, order *ordersDomain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// Delete mocks the Delete method of OrderRepository.
func (m *MockOrderRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
