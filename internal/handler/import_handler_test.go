package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mediabrief/internal/domain"
	"mediabrief/internal/handler"
	"mediabrief/internal/service"
	"mediabrief/internal/staging"
	"mediabrief/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func multipartBody(t *testing.T, fileName string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func newImportRouter(svc service.ImportService) *gin.Engine {
	h := handler.NewImportHandler(svc)
	r := gin.New()
	r.POST("/api/v1/briefs/:briefId/imports", h.Extract)
	r.POST("/api/v1/imports/:id/reextract", h.Reextract)
	r.GET("/api/v1/imports/:id", h.Get)
	r.PUT("/api/v1/imports/:id/buffer", h.SetBuffer)
	r.POST("/api/v1/imports/:id/selection/:candidateId/toggle", h.Toggle)
	r.POST("/api/v1/imports/:id/confirm", h.Confirm)
	r.GET("/api/v1/imports/:id/export.csv", h.ExportCSV)
	r.GET("/api/v1/briefs/:briefId/items", h.Cart)
	return r
}

func TestImportHandler_Extract_Success(t *testing.T) {
	svc := new(mocks.MockImportService)
	r := newImportRouter(svc)

	svc.On("Extract", mock.Anything, mock.MatchedBy(func(in service.ExtractInput) bool {
		return in.BriefID == "brief-1" &&
			in.FileName == "schedule.csv" &&
			in.Channel == "ooh" &&
			in.Publisher == "jcdecaux" &&
			in.BufferDays != nil && *in.BufferDays == 7 &&
			string(in.Data) == "site,start\nA,2024-03-20\n"
	})).Return(&service.ExtractResponse{
		Success:   true,
		SessionID: "sess-1",
		State:     domain.SessionStaged,
	}, nil)

	body, ct := multipartBody(t, "schedule.csv", []byte("site,start\nA,2024-03-20\n"), map[string]string{
		"channel":     "ooh",
		"publisher":   "jcdecaux",
		"buffer_days": "7",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/briefs/brief-1/imports", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp service.ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "sess-1", resp.SessionID)
	svc.AssertExpectations(t)
}

func TestImportHandler_Extract_NoPlacementsStillListed(t *testing.T) {
	svc := new(mocks.MockImportService)
	r := newImportRouter(svc)

	svc.On("Extract", mock.Anything, mock.AnythingOfType("service.ExtractInput")).Return(&service.ExtractResponse{
		Success:   true,
		SessionID: "sess-1",
		State:     domain.SessionStaged,
	}, nil)

	body, ct := multipartBody(t, "schedule.csv", []byte("site,start\nA,2024-03-20\n"), nil)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/briefs/brief-1/imports", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"placements":[]`)
	assert.Contains(t, w.Body.String(), `"detectedChannel":""`)
	assert.Contains(t, w.Body.String(), `"detectedPublisher":""`)
	assert.NotContains(t, w.Body.String(), `"error"`)
}

func TestImportHandler_Extract_MissingFile(t *testing.T) {
	svc := new(mocks.MockImportService)
	r := newImportRouter(svc)

	body, ct := multipartBody(t, "", nil, map[string]string{"channel": "ooh"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/briefs/brief-1/imports", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_FILE")
	svc.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestImportHandler_Extract_NegativeBuffer(t *testing.T) {
	svc := new(mocks.MockImportService)
	r := newImportRouter(svc)

	body, ct := multipartBody(t, "schedule.csv", []byte("a\n"), map[string]string{"buffer_days": "-2"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/briefs/brief-1/imports", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_BUFFER")
}

func TestImportHandler_Extract_FailureKeepsDebugTrail(t *testing.T) {
	svc := new(mocks.MockImportService)
	r := newImportRouter(svc)

	svc.On("Extract", mock.Anything, mock.AnythingOfType("service.ExtractInput")).Return(&service.ExtractResponse{
		Success:   false,
		SessionID: "sess-1",
		State:     domain.SessionExtractionFailed,
		Error:     domain.ErrEmptyDocument.Error(),
		Debug:     domain.DebugTrail{Steps: []string{"no rows found"}},
	}, domain.ErrEmptyDocument)

	body, ct := multipartBody(t, "schedule.csv", []byte(",,\n"), nil)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/briefs/brief-1/imports", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp service.ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, domain.SessionExtractionFailed, resp.State)
	assert.NotEmpty(t, resp.Debug.Steps)
}

func TestImportHandler_Reextract_InFlight(t *testing.T) {
	svc := new(mocks.MockImportService)
	r := newImportRouter(svc)

	svc.On("Reextract", mock.Anything, "sess-1", mock.AnythingOfType("service.ExtractInput")).
		Return(nil, domain.ErrExtractionInFlight)

	body, ct := multipartBody(t, "schedule.csv", []byte("a\n"), nil)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/imports/sess-1/reextract", body)
	req.Header.Set("Content-Type", ct)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "EXTRACTION_IN_FLIGHT")
}

func TestImportHandler_Get_NotFound(t *testing.T) {
	svc := new(mocks.MockImportService)
	r := newImportRouter(svc)
	svc.On("GetSession", "missing").Return(nil, domain.ErrSessionNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/imports/missing", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "SESSION_NOT_FOUND", resp.Error.Code)
}

func TestImportHandler_SetBuffer(t *testing.T) {
	svc := new(mocks.MockImportService)
	r := newImportRouter(svc)
	svc.On("SetBuffer", "sess-1", 0).Return(&staging.View{ID: "sess-1", State: domain.SessionStaged}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/imports/sess-1/buffer", strings.NewReader(`{"bufferDays":0}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestImportHandler_SetBuffer_MissingField(t *testing.T) {
	svc := new(mocks.MockImportService)
	r := newImportRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/imports/sess-1/buffer", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "SetBuffer", mock.Anything, mock.Anything)
}

func TestImportHandler_Toggle_UnknownCandidate(t *testing.T) {
	svc := new(mocks.MockImportService)
	r := newImportRouter(svc)
	svc.On("Toggle", "sess-1", "nope").Return(nil, fmt.Errorf("toggle: %w", domain.ErrCandidateNotFound))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/imports/sess-1/selection/nope/toggle", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CANDIDATE_NOT_FOUND")
}

func TestImportHandler_Confirm(t *testing.T) {
	svc := new(mocks.MockImportService)
	r := newImportRouter(svc)
	items := []domain.BriefItem{{ID: "i1", PlacementName: "Bondi Panel", Status: domain.BriefItemStatusBriefed}}
	svc.On("Confirm", mock.Anything, "sess-1").Return(items, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/imports/sess-1/confirm", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
}

func TestImportHandler_Confirm_WrongState(t *testing.T) {
	svc := new(mocks.MockImportService)
	r := newImportRouter(svc)
	svc.On("Confirm", mock.Anything, "sess-1").Return(nil, domain.ErrInvalidTransition)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/imports/sess-1/confirm", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestImportHandler_ExportCSV(t *testing.T) {
	svc := new(mocks.MockImportService)
	r := newImportRouter(svc)
	view := &staging.View{
		ID:       "sess-1",
		FileName: "March Schedule.xlsx",
		State:    domain.SessionStaged,
		Candidates: []domain.ImportCandidate{
			{ID: "c1", PlacementRecord: domain.PlacementRecord{SiteName: "Bondi Panel", StartDate: "2024-03-20"}, DueDate: "2024-03-15"},
			{ID: "c2", PlacementRecord: domain.PlacementRecord{SiteName: "Manly Wharf"}},
		},
		Selected: []string{"c1"},
	}
	svc.On("GetSession", "sess-1").Return(view, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/imports/sess-1/export.csv", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "March_Schedule_candidates_")
	body := w.Body.Bytes()
	require.True(t, len(body) > 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, body[:3])

	lines := strings.Split(strings.TrimSpace(string(body[3:])), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Bondi Panel")
	assert.Contains(t, lines[1], "2024-03-15")
}

func TestImportHandler_Cart(t *testing.T) {
	svc := new(mocks.MockImportService)
	r := newImportRouter(svc)
	svc.On("Cart", mock.Anything, "brief-1").Return([]domain.BriefItem{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/briefs/brief-1/items", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
