package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	merchantsDomain "github.com/orderdesk/etransfer/internal/merchants/domain"
	merchantsUseCase "github.com/orderdesk/etransfer/internal/merchants/usecase"
)

// MockMerchantUseCase is a mock implementation of UseCase for testing.
type MockMerchantUseCase struct {
	mock.Mock
}

// Register mocks the Register method of UseCase.
func (m *MockMerchantUseCase) Register(
	ctx context.Context,
	input merchantsUseCase.RegisterMerchantInput,
) (*merchantsDomain.Merchant, string, error) {
	args := m.Called(ctx, input)
	var merchant *merchantsDomain.Merchant
	if args.Get(0) != nil {
		merchant = args.Get(0).(*merchantsDomain.Merchant)
	}
	return merchant, args.String(1), args.Error(2)
}

// Get mocks the Get method of UseCase.
func (m *MockMerchantUseCase) Get(
	ctx context.Context,
	id uuid.UUID,
) (*merchantsDomain.Merchant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchantsDomain.Merchant), args.Error(1)
}

// List mocks the List method of UseCase.
func (m *MockMerchantUseCase) List(
	ctx context.Context,
	limit, offset int,
) ([]*merchantsDomain.Merchant, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*merchantsDomain.Merchant), args.Error(1)
}

// SetActive mocks the SetActive method of UseCase.
func (m *MockMerchantUseCase) SetActive(
	ctx context.Context,
	id uuid.UUID,
	active bool,
) (*merchantsDomain.Merchant, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchantsDomain.Merchant), args.Error(1)
}

// RotateLicenseKey mocks the RotateLicenseKey method of UseCase.
func (m *MockMerchantUseCase) RotateLicenseKey(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// Delete mocks the Delete method of UseCase.
func (m *MockMerchantUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ValidateLicense mocks the ValidateLicense method of UseCase.
func (m *MockMerchantUseCase) ValidateLicense(
	ctx context.Context,
	email, licenseKey string,
) (*merchantsDomain.Merchant, error) {
	args := m.Called(ctx, email, licenseKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*merchantsDomain.Merchant), args.Error(1)
}
