package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"mediabrief/internal/domain"
	"mediabrief/internal/metrics"
	"mediabrief/internal/port"
)

// Client is the extraction client: one model request per attempt, decoded into
// candidate placement records. It implements port.PlacementExtractor.
type Client struct {
	provider port.ModelProvider
}

// NewClient creates an extraction client over a model provider.
func NewClient(provider port.ModelProvider) *Client {
	return &Client{provider: provider}
}

func (c *Client) ExtractPlacements(
	ctx context.Context,
	content *domain.CanonicalContent,
	channel, publisher string,
	opts port.ExtractOptions,
	trail *domain.DebugTrail,
) (*domain.ExtractionResult, error) {
	req := port.ModelRequest{
		Instruction: BuildPlacementPrompt(channel, publisher, opts.Reinforced),
	}
	if content.IsImage() {
		req.Images = content.Pages
		trail.Add("sending %d page image(s) to %s (reinforced=%t)", len(content.Pages), c.provider.Name(), opts.Reinforced)
	} else {
		req.Text = content.Text()
		trail.Add("sending %d text row(s) to %s (reinforced=%t)", len(content.Rows), c.provider.Name(), opts.Reinforced)
	}

	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		metrics.ExtractionAttemptsTotal.WithLabelValues(c.provider.Name(), "unavailable").Inc()
		trail.Add("model call failed: %v", err)
		log.Error().Err(err).Str("provider", c.provider.Name()).Msg("parser.Client: model call failed")
		if errors.Is(err, domain.ErrModelUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	trail.Add("model %s responded with %d characters", resp.Model, len(resp.Text))

	decoded, err := decodeModelOutput(resp.Text)
	if err != nil {
		metrics.ExtractionAttemptsTotal.WithLabelValues(c.provider.Name(), "unparsable").Inc()
		trail.Add("model response is not a JSON object")
		log.Warn().Str("provider", c.provider.Name()).Str("model", resp.Model).Msg("parser.Client: unparsable model response")
		return nil, err
	}
	metrics.ExtractionAttemptsTotal.WithLabelValues(c.provider.Name(), "parsed").Inc()

	if decoded.Dropped > 0 {
		trail.Add("dropped %d placement entries that were not JSON objects", decoded.Dropped)
	}
	trail.Add("parsed %d placement(s); detected channel %q, publisher %q",
		len(decoded.Placements), decoded.DetectedChannel, decoded.DetectedPublisher)

	return &domain.ExtractionResult{
		DeclaredChannel:   channel,
		DeclaredPublisher: publisher,
		DetectedChannel:   decoded.DetectedChannel,
		DetectedPublisher: decoded.DetectedPublisher,
		Placements:        decoded.Placements,
		Model:             resp.Model,
	}, nil
}
