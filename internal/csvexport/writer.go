package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"mediabrief/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (21 columns).
var columns = []string{
	"Candidate ID",
	"Selected",
	"Site Name",
	"Location",
	"Suburb",
	"State",
	"Format",
	"Dimensions",
	"Physical Size",
	"File Format",
	"Start Date",
	"End Date",
	"Due Date",
	"Daypart",
	"Spots",
	"Station",
	"Spot Length",
	"Panel ID",
	"Direction",
	"Restrictions",
	"Notes",
}

// Writer wraps csv.Writer for exporting staged import candidates as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteCandidates writes one row per candidate in order. selected reports
// whether a candidate id is currently selected.
func (w *Writer) WriteCandidates(candidates []domain.ImportCandidate, selected func(id string) bool) error {
	for i := range candidates {
		if err := w.csv.Write(candidateToRow(&candidates[i], selected)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func candidateToRow(c *domain.ImportCandidate, selected func(id string) bool) []string {
	return []string{
		c.ID,
		formatBool(selected != nil && selected(c.ID)),
		c.SiteName,
		c.Location,
		c.Suburb,
		c.State,
		c.Format,
		c.Dimensions,
		c.PhysicalSize,
		c.FileFormat,
		c.StartDate,
		c.EndDate,
		c.DueDate,
		c.Daypart,
		c.Spots,
		c.Station,
		c.SpotLength,
		c.PanelID,
		c.Direction,
		c.Restrictions,
		c.Notes,
	}
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns the export filename for an uploaded schedule.
// Format: {sanitized_schedule_name}_candidates_{YYYY-MM-DD}.csv
func BuildFilename(scheduleName string) string {
	base := strings.TrimSuffix(scheduleName, filepath.Ext(scheduleName))
	sanitized := SanitizeFilename(base)
	if sanitized == "" {
		sanitized = "import"
	}
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_candidates_%s.csv", sanitized, date)
}
