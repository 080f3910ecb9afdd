// Package domain defines the merchant domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/orderdesk/etransfer/internal/errors"
)

// Merchant represents a shop account whose orders this service reconciles.
// API access for the merchant's storefront plugin is gated by a license key;
// only its Argon2id hash is stored.
type Merchant struct {
	ID             uuid.UUID
	Name           string
	Email          string
	LicenseKeyHash string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Domain-specific errors for merchant operations.
var (
	// ErrMerchantNotFound indicates the requested merchant does not exist.
	ErrMerchantNotFound = errors.Wrap(errors.ErrNotFound, "merchant not found")

	// ErrMerchantAlreadyExists indicates a merchant with the same email already exists.
	ErrMerchantAlreadyExists = errors.Wrap(errors.ErrConflict, "merchant already exists")

	// ErrInvalidLicenseKey indicates the presented license key does not match.
	ErrInvalidLicenseKey = errors.Wrap(errors.ErrUnauthorized, "invalid license key")

	// ErrMerchantInactive indicates the merchant account is deactivated.
	ErrMerchantInactive = errors.Wrap(errors.ErrForbidden, "merchant is inactive")
)
