// Package usecase implements the merchant business logic: account
// registration, license key lifecycle and license validation.
package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/orderdesk/etransfer/internal/database"
	apperrors "github.com/orderdesk/etransfer/internal/errors"
	"github.com/orderdesk/etransfer/internal/merchants/domain"
	"github.com/orderdesk/etransfer/internal/merchants/service"
	appValidation "github.com/orderdesk/etransfer/internal/validation"
)

// RegisterMerchantInput contains the input data for merchant registration.
type RegisterMerchantInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MerchantRepository defines merchant persistence operations.
type MerchantRepository interface {
	Create(ctx context.Context, merchant *domain.Merchant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
	GetByEmail(ctx context.Context, email string) (*domain.Merchant, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Merchant, error)
	Update(ctx context.Context, merchant *domain.Merchant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UseCase defines the interface for merchant business logic operations.
type UseCase interface {
	// Register creates a merchant and returns it together with the plaintext
	// license key, which is shown exactly once and never stored.
	Register(ctx context.Context, input RegisterMerchantInput) (*domain.Merchant, string, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Merchant, error)
	// SetActive enables or disables the merchant account.
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*domain.Merchant, error)
	// RotateLicenseKey replaces the merchant's license key and returns the
	// new plaintext key.
	RotateLicenseKey(ctx context.Context, id uuid.UUID) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ValidateLicense authenticates a storefront plugin by merchant email and
	// license key.
	ValidateLicense(ctx context.Context, email, licenseKey string) (*domain.Merchant, error)
}

// MerchantUseCase handles merchant-related business logic.
type MerchantUseCase struct {
	txManager    database.TxManager
	merchantRepo MerchantRepository
	licenses     service.LicenseService
}

// NewMerchantUseCase creates a new MerchantUseCase.
func NewMerchantUseCase(
	txManager database.TxManager,
	merchantRepo MerchantRepository,
	licenses service.LicenseService,
) *MerchantUseCase {
	return &MerchantUseCase{
		txManager:    txManager,
		merchantRepo: merchantRepo,
		licenses:     licenses,
	}
}

func (uc *MerchantUseCase) validateRegisterInput(input RegisterMerchantInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register creates a new active merchant with a freshly generated license key.
func (uc *MerchantUseCase) Register(
	ctx context.Context,
	input RegisterMerchantInput,
) (*domain.Merchant, string, error) {
	if err := uc.validateRegisterInput(input); err != nil {
		return nil, "", err
	}

	plainKey, hashedKey, err := uc.licenses.GenerateKey()
	if err != nil {
		return nil, "", err
	}

	merchant := &domain.Merchant{
		ID:             uuid.Must(uuid.NewV7()),
		Name:           strings.TrimSpace(input.Name),
		Email:          strings.TrimSpace(strings.ToLower(input.Email)),
		LicenseKeyHash: hashedKey,
		Active:         true,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.merchantRepo.Create(ctx, merchant)
	})
	if err != nil {
		return nil, "", err
	}

	return merchant, plainKey, nil
}

// Get retrieves a merchant by id.
func (uc *MerchantUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	return uc.merchantRepo.GetByID(ctx, id)
}

// List retrieves merchants, newest first.
func (uc *MerchantUseCase) List(ctx context.Context, limit, offset int) ([]*domain.Merchant, error) {
	return uc.merchantRepo.List(ctx, limit, offset)
}

// SetActive enables or disables the merchant account.
func (uc *MerchantUseCase) SetActive(
	ctx context.Context,
	id uuid.UUID,
	active bool,
) (*domain.Merchant, error) {
	var merchant *domain.Merchant
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		merchant, err = uc.merchantRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		merchant.Active = active
		return uc.merchantRepo.Update(ctx, merchant)
	})
	if err != nil {
		return nil, err
	}
	return merchant, nil
}

// RotateLicenseKey replaces the merchant's license key, invalidating the old
// one immediately.
func (uc *MerchantUseCase) RotateLicenseKey(ctx context.Context, id uuid.UUID) (string, error) {
	plainKey, hashedKey, err := uc.licenses.GenerateKey()
	if err != nil {
		return "", err
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		merchant, err := uc.merchantRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		merchant.LicenseKeyHash = hashedKey
		return uc.merchantRepo.Update(ctx, merchant)
	})
	if err != nil {
		return "", err
	}
	return plainKey, nil
}

// Delete removes a merchant.
func (uc *MerchantUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.merchantRepo.Delete(ctx, id)
}

// ValidateLicense authenticates a merchant by email and license key. Lookup
// failures and hash mismatches return the same ErrInvalidLicenseKey so callers
// cannot probe which emails exist.
func (uc *MerchantUseCase) ValidateLicense(
	ctx context.Context,
	email, licenseKey string,
) (*domain.Merchant, error) {
	merchant, err := uc.merchantRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrInvalidLicenseKey
		}
		return nil, err
	}

	if !uc.licenses.VerifyKey(licenseKey, merchant.LicenseKeyHash) {
		return nil, domain.ErrInvalidLicenseKey
	}
	if !merchant.Active {
		return nil, domain.ErrMerchantInactive
	}
	return merchant, nil
}
