// Package http provides HTTP handlers and middleware for merchant management
// and storefront license authentication.
package http

import (
	"context"

	merchantsDomain "github.com/orderdesk/etransfer/internal/merchants/domain"
)

// merchantKey is a context key type for storing authenticated merchants.
type merchantKey struct{}

// WithMerchant stores an authenticated merchant in the context.
func WithMerchant(ctx context.Context, merchant *merchantsDomain.Merchant) context.Context {
	return context.WithValue(ctx, merchantKey{}, merchant)
}

// GetMerchant retrieves an authenticated merchant from the context.
// Returns (merchant, true) if present, or (nil, false) if no merchant was set.
func GetMerchant(ctx context.Context) (*merchantsDomain.Merchant, bool) {
	merchant, ok := ctx.Value(merchantKey{}).(*merchantsDomain.Merchant)
	return merchant, ok
}
