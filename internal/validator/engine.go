package validator

import (
	"slices"

	"github.com/rs/zerolog/log"

	"mediabrief/internal/domain"
	"mediabrief/internal/metrics"
	"mediabrief/internal/validator/placement"
)

// Engine runs every registered rule over an extraction result.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new validation engine.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Validate runs all rules independently; there is no short-circuiting.
// Valid is true iff no rule reported a failure. Safe for concurrent use.
func (e *Engine) Validate(result *domain.ExtractionResult) domain.ValidationResult {
	issues := []string{}
	var failedRules []string
	for _, v := range e.registry.All() {
		ruleFailed := false
		for _, r := range v.Validate(result) {
			if !r.Passed {
				issues = append(issues, r.Message)
				ruleFailed = true
			}
		}
		if ruleFailed {
			failedRules = append(failedRules, v.RuleKey())
		}
	}

	valid := len(issues) == 0
	if valid {
		metrics.ValidationsTotal.WithLabelValues("true").Inc()
	} else {
		metrics.ValidationsTotal.WithLabelValues("false").Inc()
	}
	log.Debug().
		Int("placements", len(result.Placements)).
		Int("issues", len(issues)).
		Msg("validator.Engine: result validated")

	return domain.ValidationResult{Valid: valid, Issues: issues, FailedRules: failedRules}
}

// HasGenericNameIssue reports whether the site-name rule failed. Issue text
// is never inspected: it can quote arbitrary model output.
func HasGenericNameIssue(v domain.ValidationResult) bool {
	return slices.Contains(v.FailedRules, placement.RuleSiteName)
}
