package dto

import (
	"time"

	ordersDomain "github.com/orderdesk/etransfer/internal/orders/domain"
)

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID                       int64     `json:"id"`
	ExternalOrderID          string    `json:"external_order_id,omitempty"`
	Status                   string    `json:"status"`
	Total                    string    `json:"total"`
	CustomerEmail            string    `json:"customer_email"`
	MerchantEmail            string    `json:"merchant_email,omitempty"`
	Date                     time.Time `json:"date"`
	CustomerPaymentEmailSent bool      `json:"customer_payment_email_sent"`
	MerchantPaymentEmailSent bool      `json:"merchant_payment_email_sent"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// MapOrderToResponse converts a domain order to an API response.
func MapOrderToResponse(order *ordersDomain.Order) OrderResponse {
	return OrderResponse{
		ID:                       order.ID,
		ExternalOrderID:          order.ExternalOrderID,
		Status:                   order.Status,
		Total:                    order.Total.StringFixed(2),
		CustomerEmail:            order.CustomerEmail,
		MerchantEmail:            order.MerchantEmail,
		Date:                     order.Date,
		CustomerPaymentEmailSent: order.CustomerPaymentEmailSent,
		MerchantPaymentEmailSent: order.MerchantPaymentEmailSent,
		UpdatedAt:                order.UpdatedAt,
	}
}

// ListOrdersResponse represents a paginated list of orders in API responses.
type ListOrdersResponse struct {
	Data []OrderResponse `json:"data"`
}

// MapOrdersToListResponse converts a slice of domain orders to a list response.
func MapOrdersToListResponse(orders []*ordersDomain.Order) ListOrdersResponse {
	data := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		data = append(data, MapOrderToResponse(order))
	}

	return ListOrdersResponse{
		Data: data,
	}
}
