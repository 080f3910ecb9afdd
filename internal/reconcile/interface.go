package reconcile

import "context"

// OrderMatcher finds the best candidate order for a payment event.
type OrderMatcher interface {
	FindMatch(ctx context.Context, event Event) (*MatchResult, error)
}

// Notifier sends the payment confirmation emails for a reconciled order.
type Notifier interface {
	DispatchPaymentNotifications(ctx context.Context, orderID int64) error
}

// StorefrontSyncer pushes an order status change to the upstream storefront.
type StorefrontSyncer interface {
	SyncOrderStatus(ctx context.Context, externalOrderID, status string) error
}
