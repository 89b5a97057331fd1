package csvexport

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediabrief/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	row, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)

	assert.Len(t, row, 21)
	assert.Equal(t, "Candidate ID", row[0])
	assert.Equal(t, "Site Name", row[2])
	assert.Equal(t, "Due Date", row[12])
	assert.Equal(t, "Notes", row[20])
}

func TestWriteCandidates(t *testing.T) {
	candidates := []domain.ImportCandidate{
		{
			ID: "c-1",
			PlacementRecord: domain.PlacementRecord{
				SiteName:     "JCD-NSW-01998",
				Location:     "George St, near Town Hall",
				Dimensions:   "1080x1920",
				StartDate:    "2024-03-20",
				EndDate:      "2024-04-02",
				Restrictions: `No "alcohol"`,
			},
			DueDate: "2024-03-15",
		},
		{ID: "c-2", PlacementRecord: domain.PlacementRecord{SiteName: "JCD-NSW-02001"}},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteCandidates(candidates, func(id string) bool { return id == "c-1" }))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "c-1", rows[1][0])
	assert.Equal(t, "Yes", rows[1][1])
	assert.Equal(t, "George St, near Town Hall", rows[1][3])
	assert.Equal(t, "2024-03-15", rows[1][12])
	assert.Equal(t, `No "alcohol"`, rows[1][19])
	assert.Equal(t, "No", rows[2][1])
	assert.Equal(t, "", rows[2][12])
}

func TestWriteCandidates_NilSelection(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteCandidates([]domain.ImportCandidate{{ID: "c-1"}}, nil))
	w.Flush()

	assert.True(t, strings.HasPrefix(buf.String(), "c-1,No,"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"JCDecaux March Schedule", "JCDecaux_March_Schedule"},
		{"oOh!media  (Q2)", "oOh_media_Q2"},
		{"__weird__", "weird"},
		{strings.Repeat("a", 150), strings.Repeat("a", 100)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in))
	}
}

func TestBuildFilename(t *testing.T) {
	date := time.Now().Format("2006-01-02")

	assert.Equal(t, "JCD_Schedule_candidates_"+date+".csv", BuildFilename("JCD Schedule.xlsx"))
	assert.Equal(t, "import_candidates_"+date+".csv", BuildFilename("!!!.pdf"))
}
