// Package mocks provides mock implementations for testing reconciliation consumers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/orderdesk/etransfer/internal/reconcile"
)

// MockOrderMatcher is a mock implementation of OrderMatcher for testing.
type MockOrderMatcher struct {
	mock.Mock
}

// FindMatch mocks the FindMatch method of OrderMatcher.
func (m *MockOrderMatcher) FindMatch(
	ctx context.Context,
	event reconcile.Event,
) (*reconcile.MatchResult, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconcile.MatchResult), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier for testing.
type MockNotifier struct {
	mock.Mock
}

// DispatchPaymentNotifications mocks the DispatchPaymentNotifications method of Notifier.
func (m *MockNotifier) DispatchPaymentNotifications(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

// MockStorefrontSyncer is a mock implementation of StorefrontSyncer for testing.
type MockStorefrontSyncer struct {
	mock.Mock
}

// SyncOrderStatus mocks the SyncOrderStatus method of StorefrontSyncer.
func (m *MockStorefrontSyncer) SyncOrderStatus(
	ctx context.Context,
	externalOrderID, status string,
) error {
	args := m.Called(ctx, externalOrderID, status)
	return args.Error(0)
}
