// Package mocks provides test doubles for the database package.
package mocks

import "context"

// PassthroughTxManager implements database.TxManager without a real database:
// WithTx simply invokes the function with the given context. Use it in unit
// tests where transactional grouping is irrelevant.
type PassthroughTxManager struct{}

// WithTx executes fn directly.
func (PassthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
