package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	databaseMocks "github.com/orderdesk/etransfer/internal/database/mocks"
	apperrors "github.com/orderdesk/etransfer/internal/errors"
	"github.com/orderdesk/etransfer/internal/merchants/domain"
	"github.com/orderdesk/etransfer/internal/merchants/service"
	"github.com/orderdesk/etransfer/internal/merchants/usecase"
	"github.com/orderdesk/etransfer/internal/merchants/usecase/mocks"
)

func newMerchantUseCase(repo *mocks.MockMerchantRepository) *usecase.MerchantUseCase {
	return usecase.NewMerchantUseCase(
		databaseMocks.PassthroughTxManager{},
		repo,
		service.NewLicenseService(),
	)
}

func TestMerchantUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesActiveMerchantWithHashedKey", func(t *testing.T) {
		repo := new(mocks.MockMerchantRepository)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		uc := newMerchantUseCase(repo)

		merchant, plainKey, err := uc.Register(ctx, usecase.RegisterMerchantInput{
			Name:  "  Example Shop  ",
			Email: "Shop@Example.COM",
		})
		require.NoError(t, err)
		require.NotNil(t, merchant)

		assert.Equal(t, "Example Shop", merchant.Name)
		assert.Equal(t, "shop@example.com", merchant.Email)
		assert.True(t, merchant.Active)
		assert.NotEmpty(t, plainKey)
		assert.NotEmpty(t, merchant.LicenseKeyHash)
		assert.NotContains(t, merchant.LicenseKeyHash, plainKey)
	})

	t.Run("RejectsInvalidEmail", func(t *testing.T) {
		uc := newMerchantUseCase(new(mocks.MockMerchantRepository))

		_, _, err := uc.Register(ctx, usecase.RegisterMerchantInput{Name: "Shop", Email: "nope"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("RejectsBlankName", func(t *testing.T) {
		uc := newMerchantUseCase(new(mocks.MockMerchantRepository))

		_, _, err := uc.Register(ctx, usecase.RegisterMerchantInput{Name: "   ", Email: "shop@example.com"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("PropagatesDuplicateEmail", func(t *testing.T) {
		repo := new(mocks.MockMerchantRepository)
		repo.On("Create", ctx, mock.Anything).Return(domain.ErrMerchantAlreadyExists)
		uc := newMerchantUseCase(repo)

		_, _, err := uc.Register(ctx, usecase.RegisterMerchantInput{Name: "Shop", Email: "shop@example.com"})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestMerchantUseCase_ValidateLicense(t *testing.T) {
	ctx := context.Background()
	licenses := service.NewLicenseService()
	plainKey, hashedKey, err := licenses.GenerateKey()
	require.NoError(t, err)

	merchant := &domain.Merchant{
		ID:             uuid.Must(uuid.NewV7()),
		Name:           "Example Shop",
		Email:          "shop@example.com",
		LicenseKeyHash: hashedKey,
		Active:         true,
	}

	t.Run("AcceptsValidKey", func(t *testing.T) {
		repo := new(mocks.MockMerchantRepository)
		repo.On("GetByEmail", ctx, "shop@example.com").Return(merchant, nil)
		uc := usecase.NewMerchantUseCase(databaseMocks.PassthroughTxManager{}, repo, licenses)

		got, err := uc.ValidateLicense(ctx, " Shop@Example.com ", plainKey)
		require.NoError(t, err)
		assert.Equal(t, merchant.ID, got.ID)
	})

	t.Run("RejectsWrongKey", func(t *testing.T) {
		repo := new(mocks.MockMerchantRepository)
		repo.On("GetByEmail", ctx, "shop@example.com").Return(merchant, nil)
		uc := usecase.NewMerchantUseCase(databaseMocks.PassthroughTxManager{}, repo, licenses)

		_, err := uc.ValidateLicense(ctx, "shop@example.com", "wrong-key")
		assert.ErrorIs(t, err, domain.ErrInvalidLicenseKey)
	})

	t.Run("UnknownEmailLooksLikeWrongKey", func(t *testing.T) {
		repo := new(mocks.MockMerchantRepository)
		repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrMerchantNotFound)
		uc := usecase.NewMerchantUseCase(databaseMocks.PassthroughTxManager{}, repo, licenses)

		_, err := uc.ValidateLicense(ctx, "ghost@example.com", plainKey)
		assert.ErrorIs(t, err, domain.ErrInvalidLicenseKey)
	})

	t.Run("RejectsInactiveMerchant", func(t *testing.T) {
		inactive := *merchant
		inactive.Active = false
		repo := new(mocks.MockMerchantRepository)
		repo.On("GetByEmail", ctx, "shop@example.com").Return(&inactive, nil)
		uc := usecase.NewMerchantUseCase(databaseMocks.PassthroughTxManager{}, repo, licenses)

		_, err := uc.ValidateLicense(ctx, "shop@example.com", plainKey)
		assert.ErrorIs(t, err, domain.ErrMerchantInactive)
	})
}

func TestMerchantUseCase_RotateLicenseKey(t *testing.T) {
	ctx := context.Background()
	licenses := service.NewLicenseService()
	_, oldHash, err := licenses.GenerateKey()
	require.NoError(t, err)

	merchant := &domain.Merchant{
		ID:             uuid.Must(uuid.NewV7()),
		Email:          "shop@example.com",
		LicenseKeyHash: oldHash,
		Active:         true,
	}

	t.Run("ReplacesHashAndReturnsNewKey", func(t *testing.T) {
		repo := new(mocks.MockMerchantRepository)
		repo.On("GetByID", ctx, merchant.ID).Return(merchant, nil)
		repo.On("Update", ctx, merchant).Return(nil)
		uc := usecase.NewMerchantUseCase(databaseMocks.PassthroughTxManager{}, repo, licenses)

		newKey, err := uc.RotateLicenseKey(ctx, merchant.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, newKey)
		assert.NotEqual(t, oldHash, merchant.LicenseKeyHash)
		assert.True(t, licenses.VerifyKey(newKey, merchant.LicenseKeyHash))
	})

	t.Run("PropagatesNotFound", func(t *testing.T) {
		repo := new(mocks.MockMerchantRepository)
		repo.On("GetByID", ctx, merchant.ID).Return(nil, domain.ErrMerchantNotFound)
		uc := usecase.NewMerchantUseCase(databaseMocks.PassthroughTxManager{}, repo, licenses)

		_, err := uc.RotateLicenseKey(ctx, merchant.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestMerchantUseCase_SetActive(t *testing.T) {
	ctx := context.Background()

	repo := new(mocks.MockMerchantRepository)
	merchant := &domain.Merchant{ID: uuid.Must(uuid.NewV7()), Active: true}
	repo.On("GetByID", ctx, merchant.ID).Return(merchant, nil)
	repo.On("Update", ctx, merchant).Return(nil)
	uc := newMerchantUseCase(repo)

	got, err := uc.SetActive(ctx, merchant.ID, false)
	require.NoError(t, err)
	assert.False(t, got.Active)
}
