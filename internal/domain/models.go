package domain

import (
	"fmt"
	"strings"
)

// ScheduleFile is an uploaded schedule document. It lives only for the request that carried it.
type ScheduleFile struct {
	Name string
	Data []byte
}

// PageImage is one rasterized PDF page.
type PageImage struct {
	Number   int    `json:"number"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"-"`
}

// CanonicalContent is the normalized form of a ScheduleFile handed to the model:
// text rows for spreadsheets and CSV, page images for PDF.
type CanonicalContent struct {
	Kind       FileKind
	SourceName string
	Rows       []string
	Pages      []PageImage
}

// IsImage reports whether the content is carried as page images.
func (c *CanonicalContent) IsImage() bool {
	return c.Kind == FileKindPDF
}

// Text joins the textual rows, one per line.
func (c *CanonicalContent) Text() string {
	return strings.Join(c.Rows, "\n")
}

// PlacementRecord is one normalized schedule row. Only SiteName is required;
// an absent optional field is the empty string.
type PlacementRecord struct {
	SiteName     string `json:"siteName"`
	Location     string `json:"location,omitempty"`
	Suburb       string `json:"suburb,omitempty"`
	State        string `json:"state,omitempty"`
	Format       string `json:"format,omitempty"`
	Dimensions   string `json:"dimensions,omitempty"`
	PhysicalSize string `json:"physicalSize,omitempty"`
	FileFormat   string `json:"fileFormat,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	Daypart      string `json:"daypart,omitempty"`
	Spots        string `json:"spots,omitempty"`
	Station      string `json:"station,omitempty"`
	SpotLength   string `json:"spotLength,omitempty"`
	PanelID      string `json:"panelId,omitempty"`
	Direction    string `json:"direction,omitempty"`
	Restrictions string `json:"restrictions,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ExtractionResult is the parsed output of one extraction attempt.
type ExtractionResult struct {
	DeclaredChannel   string            `json:"-"`
	DeclaredPublisher string            `json:"-"`
	DetectedChannel   string            `json:"detectedChannel"`
	DetectedPublisher string            `json:"detectedPublisher"`
	Placements        []PlacementRecord `json:"placements"`
	Model             string            `json:"-"`
	Attempt           int               `json:"-"`
}

// EffectiveChannel returns the declared channel, falling back to the detected one.
func (r *ExtractionResult) EffectiveChannel() Channel {
	if c := ParseChannel(r.DeclaredChannel); c != "" {
		return c
	}
	return ParseChannel(r.DetectedChannel)
}

// ValidationResult is the verdict of the result validator.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
	// FailedRules holds the key of every rule that reported at least one issue.
	FailedRules []string `json:"-"`
}

// DebugTrail is the ordered, append-only list of human-readable pipeline steps
// returned to the caller with every response.
type DebugTrail struct {
	Steps []string `json:"steps"`
}

// NewDebugTrail creates an empty trail.
func NewDebugTrail() *DebugTrail {
	return &DebugTrail{Steps: []string{}}
}

// Add appends a formatted step.
func (t *DebugTrail) Add(format string, args ...interface{}) {
	t.Steps = append(t.Steps, fmt.Sprintf(format, args...))
}

// Snapshot returns a copy of the trail.
func (t *DebugTrail) Snapshot() DebugTrail {
	steps := make([]string, len(t.Steps))
	copy(steps, t.Steps)
	return DebugTrail{Steps: steps}
}

// ImportCandidate is a PlacementRecord staged in one import session.
type ImportCandidate struct {
	ID string `json:"id"`
	PlacementRecord
	DueDate string `json:"dueDate"`
}

// BriefItem is a deliverable line in a creative brief.
type BriefItem struct {
	ID            string            `json:"id"`
	Channel       string            `json:"channel"`
	ChannelName   string            `json:"channelName"`
	State         string            `json:"state"`
	StateName     string            `json:"stateName"`
	Publisher     string            `json:"publisher"`
	PublisherName string            `json:"publisherName"`
	PlacementName string            `json:"placementName"`
	Location      string            `json:"location"`
	Format        string            `json:"format"`
	Specs         map[string]string `json:"specs"`
	Notes         string            `json:"notes"`
	Restrictions  string            `json:"restrictions"`
	DueDate       string            `json:"dueDate"`
	FlightStart   string            `json:"flightStart"`
	FlightEnd     string            `json:"flightEnd"`
	Status        BriefItemStatus   `json:"status"`
}
