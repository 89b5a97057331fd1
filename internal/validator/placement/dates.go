package placement

import (
	"fmt"

	"mediabrief/internal/domain"
	"mediabrief/internal/duedate"
)

// validateDates checks that populated flight dates parse and are ordered.
// Absent dates are not an issue.
func validateDates(data *domain.ExtractionResult) []ValidationResult {
	var results []ValidationResult
	for i, p := range data.Placements {
		start, startOK := duedate.ParseDate(p.StartDate)
		end, endOK := duedate.ParseDate(p.EndDate)

		if p.StartDate != "" && !startOK {
			results = append(results, failed(fmt.Sprintf("placements[%d].startDate", i),
				fmt.Sprintf("placement %d: startDate %q is not a valid date", i+1, p.StartDate)))
		}
		if p.EndDate != "" && !endOK {
			results = append(results, failed(fmt.Sprintf("placements[%d].endDate", i),
				fmt.Sprintf("placement %d: endDate %q is not a valid date", i+1, p.EndDate)))
		}
		if startOK && endOK && start.After(end) {
			results = append(results, failed(fmt.Sprintf("placements[%d].startDate", i),
				fmt.Sprintf("placement %d: startDate %s is after endDate %s", i+1, p.StartDate, p.EndDate)))
		}
	}
	return results
}
