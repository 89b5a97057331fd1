// Package extraction runs the model extraction step under the bounded
// generic-name retry policy.
package extraction

import (
	"context"

	"github.com/rs/zerolog/log"

	"mediabrief/internal/domain"
	"mediabrief/internal/metrics"
	"mediabrief/internal/port"
	"mediabrief/internal/validator"
)

// Runner pairs the extraction client with the result validator.
type Runner struct {
	extractor port.PlacementExtractor
	engine    *validator.Engine
	retry     bool
}

// NewRunner creates a Runner. With retryOnGenericNames false the runner
// never makes a second call.
func NewRunner(extractor port.PlacementExtractor, engine *validator.Engine, retryOnGenericNames bool) *Runner {
	return &Runner{extractor: extractor, engine: engine, retry: retryOnGenericNames}
}

// RunWithRetry extracts and validates once. When the verdict fails with a
// generic-name issue it makes exactly one more call with the reinforced
// instruction and returns whichever attempt has fewer issues (the second on a
// tie). A failed second call keeps the first attempt. Errors are returned only
// when the first call fails.
func (r *Runner) RunWithRetry(
	ctx context.Context,
	content *domain.CanonicalContent,
	channel, publisher string,
	trail *domain.DebugTrail,
) (*domain.ExtractionResult, domain.ValidationResult, error) {
	first, err := r.extractor.ExtractPlacements(ctx, content, channel, publisher, port.ExtractOptions{}, trail)
	if err != nil {
		return nil, domain.ValidationResult{}, err
	}
	first.Attempt = 1
	firstVerdict := r.engine.Validate(first)
	trail.Add("attempt 1 validated: valid=%t, %d issue(s)", firstVerdict.Valid, len(firstVerdict.Issues))

	if firstVerdict.Valid || !validator.HasGenericNameIssue(firstVerdict) {
		return first, firstVerdict, nil
	}
	if !r.retry {
		trail.Add("generic site names found; retry disabled")
		return first, firstVerdict, nil
	}

	metrics.ExtractionRetriesTotal.Inc()
	trail.Add("generic site names found; retrying once with reinforced instruction")
	log.Info().
		Str("channel", channel).
		Str("publisher", publisher).
		Int("issues", len(firstVerdict.Issues)).
		Msg("extraction.Runner: retrying with reinforced instruction")

	second, err := r.extractor.ExtractPlacements(ctx, content, channel, publisher, port.ExtractOptions{Reinforced: true}, trail)
	if err != nil {
		trail.Add("retry failed (%v); keeping attempt 1", err)
		log.Warn().Err(err).Msg("extraction.Runner: retry failed, keeping first attempt")
		return first, firstVerdict, nil
	}
	second.Attempt = 2
	secondVerdict := r.engine.Validate(second)
	trail.Add("attempt 2 validated: valid=%t, %d issue(s)", secondVerdict.Valid, len(secondVerdict.Issues))

	if secondVerdict.Valid || len(secondVerdict.Issues) <= len(firstVerdict.Issues) {
		trail.Add("using attempt 2")
		return second, secondVerdict, nil
	}
	trail.Add("using attempt 1 (fewer issues)")
	return first, firstVerdict, nil
}
