// Package mocks provides mock implementations for testing merchant consumers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	merchantsDomain "github.com/orderdesk/etransfer/internal/merchants/domain"
)

// MockMerchantRepository is a mock implementation of MerchantRepository for testing.
type MockMerchantRepository struct {
	mock.Mock
}

// Create mocks the Create method of MerchantRepository.
func (m *MockMerchantRepository) Create(ctx context.Context, merchant *merchantsDomain.Merchant) error {
	args := m.Called(ctx, merchant)
	return args.Error(0)
}

// GetByID mocks the GetByID method of MerchantRepository.
func (m *MockMerchantRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*merchantsDomain.Merchant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchantsDomain.Merchant), args.Error(1)
}

// GetByEmail mocks the GetByEmail method of MerchantRepository.
func (m *MockMerchantRepository) GetByEmail(
	ctx context.Context,
	email string,
) (*merchantsDomain.Merchant, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchantsDomain.Merchant), args.Error(1)
}

// List mocks the List method of MerchantRepository.
func (m *MockMerchantRepository) List(
	ctx context.Context,
	limit, offset int,
) ([]*merchantsDomain.Merchant, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*merchantsDomain.Merchant), args.Error(1)
}

// Update mocks the Update method of MerchantRepository.
func (m *MockMerchantRepository) Update(ctx context.Context, merchant *merchantsDomain.Merchant) error {
	args := m.Called(ctx, merchant)
	return args.Error(0)
}

// Delete mocks the Delete method of MerchantRepository.
func (m *MockMerchantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
