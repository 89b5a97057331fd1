package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"mediabrief/internal/domain"
	"mediabrief/internal/service"
	"mediabrief/internal/staging"
)

// MockImportService is a mock implementation of service.ImportService.
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) Extract(ctx context.Context, input service.ExtractInput) (*service.ExtractResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExtractResponse), args.Error(1)
}

func (m *MockImportService) Reextract(ctx context.Context, sessionID string, input service.ExtractInput) (*service.ExtractResponse, error) {
	args := m.Called(ctx, sessionID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExtractResponse), args.Error(1)
}

func (m *MockImportService) GetSession(sessionID string) (*staging.View, error) {
	return m.view(m.Called(sessionID))
}

func (m *MockImportService) SetBuffer(sessionID string, bufferDays int) (*staging.View, error) {
	return m.view(m.Called(sessionID, bufferDays))
}

func (m *MockImportService) Toggle(sessionID, candidateID string) (*staging.View, error) {
	return m.view(m.Called(sessionID, candidateID))
}

func (m *MockImportService) SelectAll(sessionID string) (*staging.View, error) {
	return m.view(m.Called(sessionID))
}

func (m *MockImportService) DeselectAll(sessionID string) (*staging.View, error) {
	return m.view(m.Called(sessionID))
}

func (m *MockImportService) Confirm(ctx context.Context, sessionID string) ([]domain.BriefItem, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BriefItem), args.Error(1)
}

func (m *MockImportService) Cancel(sessionID string) (*staging.View, error) {
	return m.view(m.Called(sessionID))
}

func (m *MockImportService) Cart(ctx context.Context, briefID string) ([]domain.BriefItem, error) {
	args := m.Called(ctx, briefID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BriefItem), args.Error(1)
}

func (m *MockImportService) EvictExpired(olderThan time.Time) int {
	args := m.Called(olderThan)
	return args.Int(0)
}

func (m *MockImportService) view(args mock.Arguments) (*staging.View, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staging.View), args.Error(1)
}
