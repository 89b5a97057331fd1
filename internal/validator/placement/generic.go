package placement

import (
	"fmt"
	"regexp"
	"strings"

	"mediabrief/internal/domain"
)

// GenericNameMarker appears in every generic-name issue message.
const GenericNameMarker = "generic"

var (
	numericNamePattern = regexp.MustCompile(`^#?\s*\d+$`)
	defaultNamePattern = regexp.MustCompile(`(?i)^(site|placement|location|panel|unit|item|row|billboard|screen|spot|ad|line)\s*#?\s*\d*$`)

	placeholderNames = map[string]bool{
		"unnamed":  true,
		"untitled": true,
		"unknown":  true,
		"n/a":      true,
		"na":       true,
		"tbc":      true,
		"tbd":      true,
		"default":  true,
		"none":     true,
		"-":        true,
	}
)

// IsGenericName reports whether a site name is a placeholder rather than a
// real site or unit identifier.
func IsGenericName(name string) bool {
	n := strings.TrimSpace(name)
	if n == "" {
		return true
	}
	if numericNamePattern.MatchString(n) || defaultNamePattern.MatchString(n) {
		return true
	}
	return placeholderNames[strings.ToLower(n)]
}

func validateSiteNames(data *domain.ExtractionResult) []ValidationResult {
	results := make([]ValidationResult, 0, len(data.Placements))
	for i, p := range data.Placements {
		path := fmt.Sprintf("placements[%d].siteName", i)
		if IsGenericName(p.SiteName) {
			results = append(results, failed(path,
				fmt.Sprintf("placement %d: site name %q is %s; a real site identifier is required", i+1, p.SiteName, GenericNameMarker)))
			continue
		}
		results = append(results, passed(path))
	}
	return results
}
