// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	issuanceDomain "github.com/allisson/idp/internal/issuance/domain"
)

// MockConfigUseCase is a mock implementation of ConfigUseCase for testing.
type MockConfigUseCase struct {
	mock.Mock
}

// Publish mocks the Publish method of ConfigUseCase.
func (m *MockConfigUseCase) Publish(
	ctx context.Context,
	instanceName string,
	doc *issuanceDomain.Document,
) (*issuanceDomain.Config, *issuanceDomain.Instance, error) {
	args := m.Called(ctx, instanceName, doc)
	var config *issuanceDomain.Config
	if args.Get(0) != nil {
		config = args.Get(0).(*issuanceDomain.Config)
	}
	var instance *issuanceDomain.Instance
	if args.Get(1) != nil {
		instance = args.Get(1).(*issuanceDomain.Instance)
	}
	return config, instance, args.Error(2)
}

// Get mocks the Get method of ConfigUseCase.
func (m *MockConfigUseCase) Get(
	ctx context.Context,
	instanceName string,
) (*issuanceDomain.Config, *issuanceDomain.Instance, error) {
	args := m.Called(ctx, instanceName)
	var config *issuanceDomain.Config
	if args.Get(0) != nil {
		config = args.Get(0).(*issuanceDomain.Config)
	}
	var instance *issuanceDomain.Instance
	if args.Get(1) != nil {
		instance = args.Get(1).(*issuanceDomain.Instance)
	}
	return config, instance, args.Error(2)
}

// Delete mocks the Delete method of ConfigUseCase.
func (m *MockConfigUseCase) Delete(ctx context.Context, instanceName string) error {
	args := m.Called(ctx, instanceName)
	return args.Error(0)
}

// Clear mocks the Clear method of ConfigUseCase.
func (m *MockConfigUseCase) Clear(ctx context.Context, instanceName string) error {
	args := m.Called(ctx, instanceName)
	return args.Error(0)
}

// List mocks the List method of ConfigUseCase.
func (m *MockConfigUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*issuanceDomain.Instance, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*issuanceDomain.Instance), args.Error(1)
}
