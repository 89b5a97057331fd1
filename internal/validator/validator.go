package validator

import (
	"mediabrief/internal/domain"
	"mediabrief/internal/validator/placement"
)

// Validator is the interface for a single built-in validation rule.
type Validator interface {
	Validate(data *domain.ExtractionResult) []placement.ValidationResult
	RuleKey() string
	RuleName() string
}
