package placement

import "mediabrief/internal/domain"

func validatePresence(data *domain.ExtractionResult) []ValidationResult {
	if len(data.Placements) == 0 {
		return []ValidationResult{failed("placements", "no placements detected")}
	}
	return []ValidationResult{passed("placements")}
}
