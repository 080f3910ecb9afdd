// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"
	"github.com/shopspring/decimal"

	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
	customValidation "github.com/orderdesk/etransfer/internal/validation"
)

// CreateOrderRequest contains the parameters for creating a new order.
type CreateOrderRequest struct {
	ExternalOrderID string     `json:"external_order_id"`
	Status          string     `json:"status"`
	Total           string     `json:"total"`
	CustomerEmail   string     `json:"customer_email"`
	MerchantEmail   string     `json:"merchant_email"`
	Date            *time.Time `json:"date"`
}

// Validate checks if the create order request is valid.
func (r *CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Total,
			validation.Required,
			customValidation.MonetaryAmount,
		),
		validation.Field(&r.CustomerEmail,
			validation.Required,
			customValidation.Email,
		),
		validation.Field(&r.MerchantEmail,
			customValidation.Email,
		),
		validation.Field(&r.ExternalOrderID,
			validation.Length(0, 255),
			customValidation.NoWhitespace,
		),
		validation.Field(&r.Status,
			validation.Length(0, 64),
		),
	)
}

// ToDomain converts the request to a domain order. Validate must pass first
// so the total is guaranteed to parse.
func (r *CreateOrderRequest) ToDomain() *ordersDomain.Order {
	total, _ := decimal.NewFromString(r.Total)

	order := &ordersDomain.Order{
		ExternalOrderID: r.ExternalOrderID,
		Status:          ordersDomain.NormalizeStatus(r.Status),
		Total:           total,
		CustomerEmail:   r.CustomerEmail,
		MerchantEmail:   r.MerchantEmail,
	}
	if r.Date != nil {
		order.Date = r.Date.UTC()
	}

	return order
}

// UpdateOrderStatusRequest contains the parameters for an order status transition.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// Validate checks if the update order status request is valid.
func (r *UpdateOrderStatusRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 64),
		),
	)
}
