package placement

import (
	"fmt"

	"mediabrief/internal/domain"
)

// validateChannelFields checks the fields each channel cannot be produced without.
// Channels with no required fields (print, social, unknown) always pass.
func validateChannelFields(data *domain.ExtractionResult) []ValidationResult {
	channel := data.EffectiveChannel()
	results := make([]ValidationResult, 0, len(data.Placements))
	for i, p := range data.Placements {
		path := fmt.Sprintf("placements[%d]", i)
		switch {
		case channel == domain.ChannelOOH && p.Dimensions == "" && p.PhysicalSize == "":
			results = append(results, failed(path+".dimensions",
				fmt.Sprintf("placement %d: out-of-home placements require dimensions or physicalSize", i+1)))
		case channel.IsBroadcast() && p.SpotLength == "":
			results = append(results, failed(path+".spotLength",
				fmt.Sprintf("placement %d: %s placements require a spotLength", i+1, channel)))
		case channel == domain.ChannelDigital && p.FileFormat == "":
			results = append(results, failed(path+".fileFormat",
				fmt.Sprintf("placement %d: digital placements require a fileFormat", i+1)))
		default:
			results = append(results, passed(path))
		}
	}
	return results
}
