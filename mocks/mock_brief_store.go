package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mediabrief/internal/domain"
)

// MockBriefStore is a mock implementation of port.BriefStore.
type MockBriefStore struct {
	mock.Mock
}

func (m *MockBriefStore) ListItems(ctx context.Context, briefID string) ([]domain.BriefItem, error) {
	args := m.Called(ctx, briefID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BriefItem), args.Error(1)
}

func (m *MockBriefStore) AppendItems(ctx context.Context, briefID string, items []domain.BriefItem) error {
	args := m.Called(ctx, briefID, items)
	return args.Error(0)
}
