package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"mediabrief/internal/csvexport"
	"mediabrief/internal/domain"
	"mediabrief/internal/service"
)

// ImportHandler handles schedule import endpoints.
type ImportHandler struct {
	importService service.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// Extract handles POST /api/v1/briefs/:briefId/imports
// @Summary Import a media schedule
// @Description Upload a schedule (CSV, XLSX, XLSM, XLTX, XLTM, PDF) and extract placements into a staged session
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param briefId path string true "Brief ID"
// @Param file formData file true "Schedule file"
// @Param channel formData string false "Declared channel"
// @Param publisher formData string false "Declared publisher"
// @Param state formData string false "Declared state"
// @Param buffer_days formData int false "Days before start date that assets are due"
// @Success 201 {object} ExtractResponseBody "Placements staged"
// @Failure 400 {object} ExtractResponseBody "Unsupported format"
// @Failure 413 {object} ExtractResponseBody "File too large"
// @Failure 422 {object} ExtractResponseBody "Empty document"
// @Failure 502 {object} ExtractResponseBody "Model response unreadable"
// @Failure 503 {object} ExtractResponseBody "Model unavailable"
// @Router /briefs/{briefId}/imports [post]
func (h *ImportHandler) Extract(c *gin.Context) {
	input, ok := h.bindExtractInput(c)
	if !ok {
		return
	}
	input.BriefID = c.Param("briefId")

	resp, err := h.importService.Extract(c.Request.Context(), input)
	respondExtract(c, http.StatusCreated, resp, err)
}

// Reextract handles POST /api/v1/imports/:id/reextract
// @Summary Re-extract into an existing session
// @Description Upload a replacement schedule; the session's previous results are discarded
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "Schedule file"
// @Param channel formData string false "Declared channel"
// @Param publisher formData string false "Declared publisher"
// @Param state formData string false "Declared state"
// @Param buffer_days formData int false "Days before start date that assets are due"
// @Success 200 {object} ExtractResponseBody "Placements staged"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Failure 409 {object} ErrorResponseBody "Extraction already in progress"
// @Router /imports/{id}/reextract [post]
func (h *ImportHandler) Reextract(c *gin.Context) {
	input, ok := h.bindExtractInput(c)
	if !ok {
		return
	}

	resp, err := h.importService.Reextract(c.Request.Context(), c.Param("id"), input)
	respondExtract(c, http.StatusOK, resp, err)
}

// Get handles GET /api/v1/imports/:id
// @Summary Get an import session
// @Tags imports
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=SessionView} "Session"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Router /imports/{id} [get]
func (h *ImportHandler) Get(c *gin.Context) {
	view, err := h.importService.GetSession(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// SetBuffer handles PUT /api/v1/imports/:id/buffer
// @Summary Change the due date buffer
// @Description Recompute every staged candidate's due date with a new buffer
// @Tags imports
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body SetBufferRequest true "Buffer days"
// @Success 200 {object} Response{data=SessionView} "Session"
// @Failure 400 {object} ErrorResponseBody "Invalid buffer"
// @Failure 409 {object} ErrorResponseBody "Session not staged"
// @Router /imports/{id}/buffer [put]
func (h *ImportHandler) SetBuffer(c *gin.Context) {
	var req SetBufferRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BufferDays == nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "bufferDays is required")
		return
	}

	view, err := h.importService.SetBuffer(c.Param("id"), *req.BufferDays)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// Toggle handles POST /api/v1/imports/:id/selection/:candidateId/toggle
// @Summary Toggle a candidate's selection
// @Tags imports
// @Produce json
// @Param id path string true "Session ID"
// @Param candidateId path string true "Candidate ID"
// @Success 200 {object} Response{data=SessionView} "Session"
// @Failure 404 {object} ErrorResponseBody "Session or candidate not found"
// @Router /imports/{id}/selection/{candidateId}/toggle [post]
func (h *ImportHandler) Toggle(c *gin.Context) {
	view, err := h.importService.Toggle(c.Param("id"), c.Param("candidateId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// SelectAll handles POST /api/v1/imports/:id/selection/all
// @Summary Select every candidate
// @Tags imports
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=SessionView} "Session"
// @Router /imports/{id}/selection/all [post]
func (h *ImportHandler) SelectAll(c *gin.Context) {
	view, err := h.importService.SelectAll(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// DeselectAll handles DELETE /api/v1/imports/:id/selection
// @Summary Clear the selection
// @Tags imports
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=SessionView} "Session"
// @Router /imports/{id}/selection [delete]
func (h *ImportHandler) DeselectAll(c *gin.Context) {
	view, err := h.importService.DeselectAll(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// Confirm handles POST /api/v1/imports/:id/confirm
// @Summary Commit the selected candidates to the brief
// @Tags imports
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=BriefItemList} "Committed items"
// @Failure 409 {object} ErrorResponseBody "Session not staged"
// @Router /imports/{id}/confirm [post]
func (h *ImportHandler) Confirm(c *gin.Context) {
	items, err := h.importService.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondList(c, items, len(items))
}

// Cancel handles POST /api/v1/imports/:id/cancel
// @Summary Abandon an import session
// @Tags imports
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} Response{data=SessionView} "Session"
// @Failure 409 {object} ErrorResponseBody "Session already finished"
// @Router /imports/{id}/cancel [post]
func (h *ImportHandler) Cancel(c *gin.Context) {
	view, err := h.importService.Cancel(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// ExportCSV handles GET /api/v1/imports/:id/export.csv
// @Summary Export staged candidates as CSV
// @Tags imports
// @Produce text/csv
// @Param id path string true "Session ID"
// @Success 200 {file} file "CSV file"
// @Failure 404 {object} ErrorResponseBody "Session not found"
// @Router /imports/{id}/export.csv [get]
func (h *ImportHandler) ExportCSV(c *gin.Context) {
	view, err := h.importService.GetSession(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	selected := make(map[string]bool, len(view.Selected))
	for _, id := range view.Selected {
		selected[id] = true
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", csvexport.BuildFilename(view.FileName)))
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteCandidates(view.Candidates, func(id string) bool { return selected[id] }); err != nil {
		log.Error().Err(err).Str("session_id", view.ID).Msg("ImportHandler.ExportCSV: write failed")
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Error().Err(err).Str("session_id", view.ID).Msg("ImportHandler.ExportCSV: flush failed")
	}
}

// Cart handles GET /api/v1/briefs/:briefId/items
// @Summary List a brief's committed items
// @Tags briefs
// @Produce json
// @Param briefId path string true "Brief ID"
// @Success 200 {object} Response{data=BriefItemList} "Items"
// @Router /briefs/{briefId}/items [get]
func (h *ImportHandler) Cart(c *gin.Context) {
	items, err := h.importService.Cart(c.Request.Context(), c.Param("briefId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondList(c, items, len(items))
}

// bindExtractInput reads the multipart upload. Writes the error response and
// returns false when the request is malformed.
func (h *ImportHandler) bindExtractInput(c *gin.Context) (service.ExtractInput, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return service.ExtractInput{}, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "file could not be read")
		return service.ExtractInput{}, false
	}

	input := service.ExtractInput{
		FileName:  header.Filename,
		Data:      data,
		Channel:   c.PostForm("channel"),
		Publisher: c.PostForm("publisher"),
		State:     c.PostForm("state"),
	}

	if raw := c.PostForm("buffer_days"); raw != "" {
		days, convErr := strconv.Atoi(raw)
		if convErr != nil || days < 0 {
			HandleError(c, domain.ErrInvalidBuffer)
			return service.ExtractInput{}, false
		}
		input.BufferDays = &days
	}
	return input, true
}

// respondExtract writes the extraction payload as the body. The payload
// carries its own success flag and debug trail, so failed attempts still
// return it with the mapped status.
func respondExtract(c *gin.Context, okStatus int, resp *service.ExtractResponse, err error) {
	if resp == nil {
		if err == nil {
			err = errors.New("extraction returned no response")
		}
		HandleError(c, err)
		return
	}
	status := okStatus
	if err != nil {
		status, _, _ = MapDomainError(err)
		if status >= 500 {
			requestID, _ := c.Get("request_id")
			log.Error().Err(err).Interface("request_id", requestID).Str("session_id", resp.SessionID).
				Msg("ImportHandler: extraction failed")
		}
	}
	c.JSON(status, resp)
}
