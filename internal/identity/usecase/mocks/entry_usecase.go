// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	identityDomain "github.com/allisson/idp/internal/identity/domain"
)

// MockEntryUseCase is a mock implementation of usecase.EntryUseCase
type MockEntryUseCase struct {
	mock.Mock
}

func (m *MockEntryUseCase) Create(
	ctx context.Context,
	attrs map[string][]string,
) (*identityDomain.Entry, error) {
	args := m.Called(ctx, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Entry), args.Error(1)
}

func (m *MockEntryUseCase) Get(
	ctx context.Context,
	username string,
) (*identityDomain.Entry, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Entry), args.Error(1)
}

func (m *MockEntryUseCase) Update(
	ctx context.Context,
	username string,
	attrs map[string][]string,
) (*identityDomain.Entry, error) {
	args := m.Called(ctx, username, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Entry), args.Error(1)
}

func (m *MockEntryUseCase) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockEntryUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*identityDomain.Entry, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identityDomain.Entry), args.Error(1)
}
