// Package domain defines the core domain models for order management.
// Orders are created by the storefront HTTP API and settled by the inbound
// payment-notification reconciliation engine.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a customer order awaiting or past an e-transfer payment.
type Order struct {
	// ID is the unique numeric identifier of the order.
	ID int64
	// ExternalOrderID is the storefront's reference for this order (empty if none).
	ExternalOrderID string
	// Status is the current order status. The reconciliation engine treats
	// StatusPending, StatusCompleted and StatusCancelled specially; other
	// values pass through untouched.
	Status string
	// Total is the order total in major currency units, precision 2.
	Total decimal.Decimal
	// CustomerEmail is the customer's email address (compared case-insensitively).
	CustomerEmail string
	// MerchantEmail is the merchant's email address (compared case-insensitively).
	MerchantEmail string
	// Date is the order creation timestamp, used for most-recent-first tie-breaks.
	Date time.Time
	// CustomerPaymentEmailSent flips false to true exactly once, after the
	// "payment received" notification has been sent to the customer.
	CustomerPaymentEmailSent bool
	// MerchantPaymentEmailSent flips false to true exactly once, after the
	// "payment received" notification has been sent to the merchant.
	MerchantPaymentEmailSent bool
	// UpdatedAt is the timestamp of the last persisted change.
	UpdatedAt time.Time
}

// IsPending reports whether the order still awaits payment.
func (o *Order) IsPending() bool {
	return NormalizeStatus(o.Status) == StatusPending
}

// IsTerminal reports whether monitoring of this order should stop.
func (o *Order) IsTerminal() bool {
	return IsTerminalStatus(o.Status)
}

// TotalCents returns the order total converted to integer cents.
func (o *Order) TotalCents() int64 {
	return o.Total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// OrderFilter restricts order listing queries. Zero values mean "no restriction".
type OrderFilter struct {
	// Status filters by normalized order status.
	Status string
	// Total filters by exact order total.
	Total *decimal.Decimal
	// ExternalOrderID filters by the storefront reference.
	ExternalOrderID string
	// CustomerEmail filters by customer email, case-insensitively.
	CustomerEmail string
	// ExcludeStatuses drops orders whose status is in the list.
	ExcludeStatuses []string
	// Limit caps the number of returned orders (0 means no cap).
	Limit int
	// Offset skips the first N orders of the result set.
	Offset int
}
