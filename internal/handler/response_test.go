package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"mediabrief/internal/domain"
	"mediabrief/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrUnsupportedFormat, http.StatusBadRequest, "UNSUPPORTED_FORMAT"},
		{domain.ErrEmptyDocument, http.StatusUnprocessableEntity, "EMPTY_DOCUMENT"},
		{domain.ErrExtraction, http.StatusBadGateway, "EXTRACTION_ERROR"},
		{domain.ErrModelUnavailable, http.StatusServiceUnavailable, "MODEL_UNAVAILABLE"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrSessionNotFound, http.StatusNotFound, "SESSION_NOT_FOUND"},
		{domain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{domain.ErrExtractionInFlight, http.StatusConflict, "EXTRACTION_IN_FLIGHT"},
		{domain.ErrCandidateNotFound, http.StatusNotFound, "CANDIDATE_NOT_FOUND"},
		{domain.ErrInvalidBuffer, http.StatusBadRequest, "INVALID_BUFFER"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("wrapped: %w", domain.ErrExtraction), http.StatusBadGateway, "EXTRACTION_ERROR"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code, msg := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestMapDomainError_UnsupportedFormatListsAcceptedExtensions(t *testing.T) {
	_, _, msg := handler.MapDomainError(domain.ErrUnsupportedFormat)

	assert.Equal(t, "unsupported schedule format; allowed: csv, pdf, xlsm, xlsx, xltm, xltx", msg)
	assert.NotContains(t, msg, "xls,")
	_, ok := domain.KindForFilename("legacy.xls")
	assert.False(t, ok)
}
