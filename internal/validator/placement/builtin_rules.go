// Package placement holds the built-in quality rules for extracted placements.
package placement

import "mediabrief/internal/domain"

// ValidationResult is a local result type to avoid an import cycle with the
// validator package.
type ValidationResult struct {
	Passed    bool
	FieldPath string
	Message   string
}

// BuiltinValidator wraps a rule function and its metadata for the registry.
type BuiltinValidator struct {
	key  string
	name string
	fn   func(*domain.ExtractionResult) []ValidationResult
}

func (b *BuiltinValidator) Validate(data *domain.ExtractionResult) []ValidationResult {
	return b.fn(data)
}
func (b *BuiltinValidator) RuleKey() string  { return b.key }
func (b *BuiltinValidator) RuleName() string { return b.name }

// Rule keys.
const (
	RulePresent       = "placements.present"
	RuleSiteName      = "placements.site_name"
	RuleChannelFields = "placements.channel_fields"
	RuleDates         = "placements.dates"
)

// AllBuiltinValidators returns the placement rules in reporting order.
func AllBuiltinValidators() []*BuiltinValidator {
	return []*BuiltinValidator{
		{key: RulePresent, name: "Placements Present", fn: validatePresence},
		{key: RuleSiteName, name: "Site Name Not Generic", fn: validateSiteNames},
		{key: RuleChannelFields, name: "Channel Required Fields", fn: validateChannelFields},
		{key: RuleDates, name: "Flight Dates", fn: validateDates},
	}
}

func failed(fieldPath, message string) ValidationResult {
	return ValidationResult{Passed: false, FieldPath: fieldPath, Message: message}
}

func passed(fieldPath string) ValidationResult {
	return ValidationResult{Passed: true, FieldPath: fieldPath}
}
