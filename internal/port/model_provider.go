package port

import (
	"context"

	"mediabrief/internal/domain"
)

// ModelRequest is one generative-model call: a schema instruction plus either
// schedule text or rendered page images.
type ModelRequest struct {
	Instruction string
	Text        string
	Images      []domain.PageImage
}

// ModelResponse carries the raw text the model produced.
type ModelResponse struct {
	Text     string
	Model    string
	Provider string
}

// ModelProvider abstracts a generative model API.
type ModelProvider interface {
	Complete(ctx context.Context, req ModelRequest) (*ModelResponse, error)
	Name() string
}

// ExtractOptions tunes a single extraction attempt.
type ExtractOptions struct {
	// Reinforced adds the instruction that placeholder site names are unacceptable.
	Reinforced bool
}

// PlacementExtractor turns canonical content into candidate placement records.
type PlacementExtractor interface {
	ExtractPlacements(ctx context.Context, content *domain.CanonicalContent, channel, publisher string, opts ExtractOptions, trail *domain.DebugTrail) (*domain.ExtractionResult, error)
}
