package staging

import (
	"strings"

	"mediabrief/internal/domain"
)

// Namer resolves catalog display names. Unknown codes return the code itself.
type Namer interface {
	ChannelName(code string) string
	StateName(code string) string
	PublisherName(code string) string
}

// codeNamer is used when no catalog is wired.
type codeNamer struct{}

func (codeNamer) ChannelName(code string) string   { return code }
func (codeNamer) StateName(code string) string     { return code }
func (codeNamer) PublisherName(code string) string { return code }

// toBriefItem maps a candidate into a brief deliverable. The operator's
// declared channel and publisher always win over what the model detected.
func toBriefItem(id string, c *domain.ImportCandidate, decl Declaration, namer Namer) domain.BriefItem {
	channel := decl.Channel
	if canonical := domain.ParseChannel(decl.Channel); canonical != "" {
		channel = string(canonical)
	}
	state := decl.State
	if state == "" {
		state = strings.ToUpper(c.State)
	}

	return domain.BriefItem{
		ID:            id,
		Channel:       channel,
		ChannelName:   namer.ChannelName(channel),
		State:         state,
		StateName:     namer.StateName(state),
		Publisher:     decl.Publisher,
		PublisherName: namer.PublisherName(decl.Publisher),
		PlacementName: c.SiteName,
		Location:      joinNonEmpty(", ", c.Location, c.Suburb),
		Format:        c.Format,
		Specs:         specsOf(&c.PlacementRecord),
		Notes:         c.Notes,
		Restrictions:  c.Restrictions,
		DueDate:       c.DueDate,
		FlightStart:   c.StartDate,
		FlightEnd:     c.EndDate,
		Status:        domain.BriefItemStatusBriefed,
	}
}

// specsOf collects the technical fields that have no dedicated BriefItem column.
func specsOf(p *domain.PlacementRecord) map[string]string {
	specs := map[string]string{}
	for key, val := range map[string]string{
		"dimensions":   p.Dimensions,
		"physicalSize": p.PhysicalSize,
		"fileFormat":   p.FileFormat,
		"daypart":      p.Daypart,
		"spots":        p.Spots,
		"station":      p.Station,
		"spotLength":   p.SpotLength,
		"panelId":      p.PanelID,
		"direction":    p.Direction,
	} {
		if val != "" {
			specs[key] = val
		}
	}
	return specs
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
