package handler

import (
	"mediabrief/internal/domain"
	"mediabrief/internal/service"
	"mediabrief/internal/staging"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// SetBufferRequest represents the set buffer request body.
type SetBufferRequest struct {
	BufferDays *int `json:"bufferDays" binding:"required" example:"5"`
}

// Response wraps a successful response.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *ListMeta   `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}

// ExtractResponseBody documents the extraction payload.
type ExtractResponseBody = service.ExtractResponse

// SessionView documents the session snapshot.
type SessionView = staging.View

// BriefItemList documents a list of committed brief items.
type BriefItemList = []domain.BriefItem
