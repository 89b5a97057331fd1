package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mediabrief/internal/port"
)

// MockModelProvider is a mock implementation of port.ModelProvider.
type MockModelProvider struct {
	mock.Mock
}

func (m *MockModelProvider) Complete(ctx context.Context, req port.ModelRequest) (*port.ModelResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ModelResponse), args.Error(1)
}

func (m *MockModelProvider) Name() string {
	args := m.Called()
	return args.String(0)
}
