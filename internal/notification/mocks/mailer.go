// Package mocks provides mock implementations for testing notification consumers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockMailer is a mock implementation of Mailer for testing.
type MockMailer struct {
	mock.Mock
}

// Send mocks the Send method of Mailer.
func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
