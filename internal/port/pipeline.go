package port

import (
	"context"

	"mediabrief/internal/domain"
)

// ContentExtractor normalizes an uploaded schedule into canonical content.
type ContentExtractor interface {
	Extract(ctx context.Context, data []byte, filename string, trail *domain.DebugTrail) (*domain.CanonicalContent, error)
}

// ExtractionRunner runs extraction and validation under the retry policy.
type ExtractionRunner interface {
	RunWithRetry(
		ctx context.Context,
		content *domain.CanonicalContent,
		channel, publisher string,
		trail *domain.DebugTrail,
	) (*domain.ExtractionResult, domain.ValidationResult, error)
}
