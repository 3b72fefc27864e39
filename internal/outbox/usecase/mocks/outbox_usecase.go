// Package mocks provides mock implementations for testing CLI commands.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	outboxUseCase "github.com/allisson/idp/internal/outbox/usecase"
)

// MockOutboxUseCase is a mock implementation of UseCase for testing.
type MockOutboxUseCase struct {
	mock.Mock
}

// Start mocks the Start method of UseCase.
func (m *MockOutboxUseCase) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ProcessEvents mocks the ProcessEvents method of UseCase.
func (m *MockOutboxUseCase) ProcessEvents(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// VerifyEvents mocks the VerifyEvents method of UseCase.
func (m *MockOutboxUseCase) VerifyEvents(
	ctx context.Context,
	limit int,
) (*outboxUseCase.VerificationReport, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outboxUseCase.VerificationReport), args.Error(1)
}
