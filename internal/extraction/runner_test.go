package extraction_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mediabrief/internal/domain"
	"mediabrief/internal/extraction"
	"mediabrief/internal/port"
	"mediabrief/internal/validator"
	"mediabrief/mocks"
)

var (
	plainOpts      = port.ExtractOptions{}
	reinforcedOpts = port.ExtractOptions{Reinforced: true}
	content        = &domain.CanonicalContent{Kind: domain.FileKindCSV, Rows: []string{"Site,Size", "JCD-NSW-01998,6x3"}}
)

func result(records ...domain.PlacementRecord) *domain.ExtractionResult {
	return &domain.ExtractionResult{DeclaredChannel: "ooh", DeclaredPublisher: "jcdecaux", Placements: records}
}

func newRunner(ext port.PlacementExtractor, retry bool) *extraction.Runner {
	return extraction.NewRunner(ext, validator.NewEngine(validator.NewDefaultRegistry()), retry)
}

func TestRunWithRetry_ValidFirstAttempt_NoRetry(t *testing.T) {
	ext := new(mocks.MockPlacementExtractor)
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", plainOpts, mock.Anything).
		Return(result(domain.PlacementRecord{SiteName: "JCD-NSW-01998", PhysicalSize: "6m x 3m"}), nil)

	res, v, err := newRunner(ext, true).RunWithRetry(context.Background(), content, "ooh", "jcdecaux", domain.NewDebugTrail())

	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, 1, res.Attempt)
	ext.AssertNumberOfCalls(t, "ExtractPlacements", 1)
}

func TestRunWithRetry_GenericNameOnly_RetriesExactlyOnce(t *testing.T) {
	ext := new(mocks.MockPlacementExtractor)
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", plainOpts, mock.Anything).
		Return(result(domain.PlacementRecord{SiteName: "Site 1", PhysicalSize: "6m x 3m"}), nil).Once()
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", reinforcedOpts, mock.Anything).
		Return(result(domain.PlacementRecord{SiteName: "JCD-NSW-01998", PhysicalSize: "6m x 3m"}), nil).Once()
	trail := domain.NewDebugTrail()

	res, v, err := newRunner(ext, true).RunWithRetry(context.Background(), content, "ooh", "jcdecaux", trail)

	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, 2, res.Attempt)
	assert.Equal(t, "JCD-NSW-01998", res.Placements[0].SiteName)
	ext.AssertNumberOfCalls(t, "ExtractPlacements", 2)
	assert.Contains(t, trail.Steps, "using attempt 2")
}

func TestRunWithRetry_NonGenericFailure_NoRetry(t *testing.T) {
	ext := new(mocks.MockPlacementExtractor)
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", plainOpts, mock.Anything).
		Return(result(domain.PlacementRecord{SiteName: "JCD-NSW-01998"}), nil)

	res, v, err := newRunner(ext, true).RunWithRetry(context.Background(), content, "ooh", "jcdecaux", domain.NewDebugTrail())

	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Len(t, res.Placements, 1)
	ext.AssertNumberOfCalls(t, "ExtractPlacements", 1)
}

func TestRunWithRetry_GenericWordOutsideSiteName_NoRetry(t *testing.T) {
	ext := new(mocks.MockPlacementExtractor)
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", plainOpts, mock.Anything).
		Return(result(domain.PlacementRecord{SiteName: "JCD-NSW-01998", PhysicalSize: "6m x 3m", StartDate: "Generic flight"}), nil)

	res, v, err := newRunner(ext, true).RunWithRetry(context.Background(), content, "ooh", "jcdecaux", domain.NewDebugTrail())

	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, 1, res.Attempt)
	ext.AssertNumberOfCalls(t, "ExtractPlacements", 1)
}

func TestRunWithRetry_EmptyPlacements_NoRetry(t *testing.T) {
	ext := new(mocks.MockPlacementExtractor)
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", plainOpts, mock.Anything).
		Return(result(), nil)

	_, v, err := newRunner(ext, true).RunWithRetry(context.Background(), content, "ooh", "jcdecaux", domain.NewDebugTrail())

	require.NoError(t, err)
	assert.Equal(t, []string{"no placements detected"}, v.Issues)
	ext.AssertNumberOfCalls(t, "ExtractPlacements", 1)
}

func TestRunWithRetry_SecondStillGeneric_NoThirdCall(t *testing.T) {
	ext := new(mocks.MockPlacementExtractor)
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", plainOpts, mock.Anything).
		Return(result(
			domain.PlacementRecord{SiteName: "Site 1", PhysicalSize: "6x3"},
			domain.PlacementRecord{SiteName: "Site 2", PhysicalSize: "6x3"},
		), nil).Once()
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", reinforcedOpts, mock.Anything).
		Return(result(
			domain.PlacementRecord{SiteName: "JCD-1", PhysicalSize: "6x3"},
			domain.PlacementRecord{SiteName: "Site 2", PhysicalSize: "6x3"},
		), nil).Once()

	res, v, err := newRunner(ext, true).RunWithRetry(context.Background(), content, "ooh", "jcdecaux", domain.NewDebugTrail())

	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Len(t, v.Issues, 1)
	assert.Equal(t, 2, res.Attempt)
	ext.AssertNumberOfCalls(t, "ExtractPlacements", 2)
}

func TestRunWithRetry_SecondWorse_KeepsFirst(t *testing.T) {
	ext := new(mocks.MockPlacementExtractor)
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", plainOpts, mock.Anything).
		Return(result(
			domain.PlacementRecord{SiteName: "Site 1", PhysicalSize: "6x3"},
			domain.PlacementRecord{SiteName: "JCD-2", PhysicalSize: "6x3"},
		), nil).Once()
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", reinforcedOpts, mock.Anything).
		Return(result(
			domain.PlacementRecord{SiteName: "JCD-1"},
			domain.PlacementRecord{SiteName: "JCD-2"},
		), nil).Once()

	res, v, err := newRunner(ext, true).RunWithRetry(context.Background(), content, "ooh", "jcdecaux", domain.NewDebugTrail())

	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempt)
	assert.Len(t, v.Issues, 1)
	assert.Contains(t, v.Issues[0], "generic")
}

func TestRunWithRetry_TieReturnsSecond(t *testing.T) {
	ext := new(mocks.MockPlacementExtractor)
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", plainOpts, mock.Anything).
		Return(result(domain.PlacementRecord{SiteName: "Site 1", PhysicalSize: "6x3"}), nil).Once()
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", reinforcedOpts, mock.Anything).
		Return(result(domain.PlacementRecord{SiteName: "JCD-1"}), nil).Once()

	res, _, err := newRunner(ext, true).RunWithRetry(context.Background(), content, "ooh", "jcdecaux", domain.NewDebugTrail())

	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempt)
}

func TestRunWithRetry_SecondCallFails_KeepsFirst(t *testing.T) {
	ext := new(mocks.MockPlacementExtractor)
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", plainOpts, mock.Anything).
		Return(result(domain.PlacementRecord{SiteName: "Unnamed", PhysicalSize: "6x3"}), nil).Once()
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", reinforcedOpts, mock.Anything).
		Return(nil, domain.ErrModelUnavailable).Once()
	trail := domain.NewDebugTrail()

	res, v, err := newRunner(ext, true).RunWithRetry(context.Background(), content, "ooh", "jcdecaux", trail)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempt)
	assert.False(t, v.Valid)
	assert.Contains(t, trail.Steps[len(trail.Steps)-1], "keeping attempt 1")
}

func TestRunWithRetry_FirstCallFails(t *testing.T) {
	ext := new(mocks.MockPlacementExtractor)
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", plainOpts, mock.Anything).
		Return(nil, domain.ErrExtraction)

	res, _, err := newRunner(ext, true).RunWithRetry(context.Background(), content, "ooh", "jcdecaux", domain.NewDebugTrail())

	assert.True(t, errors.Is(err, domain.ErrExtraction))
	assert.Nil(t, res)
	ext.AssertNumberOfCalls(t, "ExtractPlacements", 1)
}

func TestRunWithRetry_RetryDisabled(t *testing.T) {
	ext := new(mocks.MockPlacementExtractor)
	ext.On("ExtractPlacements", mock.Anything, content, "ooh", "jcdecaux", plainOpts, mock.Anything).
		Return(result(domain.PlacementRecord{SiteName: "Site 1", PhysicalSize: "6x3"}), nil)

	_, v, err := newRunner(ext, false).RunWithRetry(context.Background(), content, "ooh", "jcdecaux", domain.NewDebugTrail())

	require.NoError(t, err)
	assert.False(t, v.Valid)
	ext.AssertNumberOfCalls(t, "ExtractPlacements", 1)
}
