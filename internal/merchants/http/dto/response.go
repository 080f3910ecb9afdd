package dto

import (
	"time"

	merchantsDomain "github.com/orderdesk/etransfer/internal/merchants/domain"
)

// MerchantResponse represents a merchant in API responses.
type MerchantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterMerchantResponse is returned once at registration time. The license
// key is only available here; afterwards only its hash exists.
type RegisterMerchantResponse struct {
	MerchantResponse
	LicenseKey string `json:"license_key"`
}

// RotateLicenseKeyResponse carries the replacement license key.
type RotateLicenseKeyResponse struct {
	LicenseKey string `json:"license_key"`
}

// MapMerchantToResponse converts a domain merchant to an API response.
func MapMerchantToResponse(merchant *merchantsDomain.Merchant) MerchantResponse {
	return MerchantResponse{
		ID:        merchant.ID.String(),
		Name:      merchant.Name,
		Email:     merchant.Email,
		Active:    merchant.Active,
		CreatedAt: merchant.CreatedAt,
		UpdatedAt: merchant.UpdatedAt,
	}
}

// ListMerchantsResponse represents a paginated list of merchants in API responses.
type ListMerchantsResponse struct {
	Data []MerchantResponse `json:"data"`
}

// MapMerchantsToListResponse converts a slice of domain merchants to a list response.
func MapMerchantsToListResponse(merchants []*merchantsDomain.Merchant) ListMerchantsResponse {
	data := make([]MerchantResponse, 0, len(merchants))
	for _, merchant := range merchants {
		data = append(data, MapMerchantToResponse(merchant))
	}

	return ListMerchantsResponse{
		Data: data,
	}
}
