package parser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mediabrief/internal/domain"
	"mediabrief/internal/parser"
	"mediabrief/internal/port"
	"mediabrief/mocks"
)

func namedMock(name string) *mocks.MockModelProvider {
	m := new(mocks.MockModelProvider)
	m.On("Name").Return(name).Maybe()
	return m
}

var fallbackReq = port.ModelRequest{Instruction: "extract", Text: "rows"}

func TestFallbackProvider_FirstSucceeds(t *testing.T) {
	p1, p2 := namedMock("claude"), namedMock("gemini")
	p1.On("Complete", mock.Anything, fallbackReq).Return(&port.ModelResponse{Text: "{}", Model: "c"}, nil)

	fp := parser.NewFallbackProvider([]port.ModelProvider{p1, p2})
	resp, err := fp.Complete(context.Background(), fallbackReq)

	require.NoError(t, err)
	assert.Equal(t, "c", resp.Model)
	p2.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	assert.Equal(t, "claude>gemini", fp.Name())
}

func TestFallbackProvider_FirstFails_SecondSucceeds(t *testing.T) {
	p1, p2 := namedMock("claude"), namedMock("gemini")
	p1.On("Complete", mock.Anything, fallbackReq).Return(nil, errors.New("boom"))
	p2.On("Complete", mock.Anything, fallbackReq).Return(&port.ModelResponse{Text: "{}", Model: "g"}, nil)

	resp, err := parser.NewFallbackProvider([]port.ModelProvider{p1, p2}).Complete(context.Background(), fallbackReq)

	require.NoError(t, err)
	assert.Equal(t, "g", resp.Model)
}

func TestFallbackProvider_AllFail(t *testing.T) {
	p1, p2 := namedMock("claude"), namedMock("gemini")
	p1.On("Complete", mock.Anything, fallbackReq).Return(nil, errors.New("boom"))
	p2.On("Complete", mock.Anything, fallbackReq).Return(nil, &parser.ProviderError{Provider: "gemini", StatusCode: 500})

	_, err := parser.NewFallbackProvider([]port.ModelProvider{p1, p2}).Complete(context.Background(), fallbackReq)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrModelUnavailable))
	assert.Contains(t, err.Error(), "all providers failed")
}

func TestFallbackProvider_RateLimitedCircuitSkipsProvider(t *testing.T) {
	p1, p2 := namedMock("claude"), namedMock("gemini")
	p1.On("Complete", mock.Anything, fallbackReq).
		Return(nil, parser.NewRateLimitError("claude", errors.New("429"), 60)).Once()
	p2.On("Complete", mock.Anything, fallbackReq).Return(&port.ModelResponse{Text: "{}", Model: "g"}, nil)

	fp := parser.NewFallbackProvider([]port.ModelProvider{p1, p2})

	_, err := fp.Complete(context.Background(), fallbackReq)
	require.NoError(t, err)
	_, err = fp.Complete(context.Background(), fallbackReq)
	require.NoError(t, err)

	p1.AssertNumberOfCalls(t, "Complete", 1)
	p2.AssertNumberOfCalls(t, "Complete", 2)
}

func TestFallbackProvider_AllRateLimited(t *testing.T) {
	p1 := namedMock("claude")
	p1.On("Complete", mock.Anything, fallbackReq).
		Return(nil, parser.NewRateLimitError("claude", errors.New("429"), 10))

	_, err := parser.NewFallbackProvider([]port.ModelProvider{p1}).Complete(context.Background(), fallbackReq)

	var rlErr *parser.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "all", rlErr.Provider)
	assert.True(t, errors.Is(err, domain.ErrModelUnavailable))
}
