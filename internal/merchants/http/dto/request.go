// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/orderdesk/etransfer/internal/validation"
)

// RegisterMerchantRequest contains the parameters for registering a merchant.
type RegisterMerchantRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate checks if the register merchant request is valid.
func (r *RegisterMerchantRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Email,
			validation.Required,
			customValidation.Email,
		),
	)
}

// SetMerchantActiveRequest contains the parameters for enabling or disabling a merchant.
type SetMerchantActiveRequest struct {
	Active *bool `json:"active"`
}

// Validate checks if the set merchant active request is valid.
func (r *SetMerchantActiveRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Active,
			validation.NotNil,
		),
	)
}
