package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mediabrief/internal/domain"
	"mediabrief/internal/port"
)

// MockPlacementExtractor is a mock implementation of port.PlacementExtractor.
type MockPlacementExtractor struct {
	mock.Mock
}

func (m *MockPlacementExtractor) ExtractPlacements(
	ctx context.Context,
	content *domain.CanonicalContent,
	channel, publisher string,
	opts port.ExtractOptions,
	trail *domain.DebugTrail,
) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, content, channel, publisher, opts, trail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}
