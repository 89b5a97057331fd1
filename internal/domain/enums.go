package domain

import (
	"path/filepath"
	"slices"
	"strings"
)

// FileKind represents the schedule document formats accepted for import.
type FileKind string

const (
	FileKindSpreadsheet FileKind = "spreadsheet"
	FileKindCSV         FileKind = "csv"
	FileKindPDF         FileKind = "pdf"
)

// AllowedExtensions maps file extensions (without dot) to FileKind.
var AllowedExtensions = map[string]FileKind{
	"xlsx": FileKindSpreadsheet,
	"xlsm": FileKindSpreadsheet,
	"xltx": FileKindSpreadsheet,
	"xltm": FileKindSpreadsheet,
	"csv":  FileKindCSV,
	"pdf":  FileKindPDF,
}

// KindForFilename resolves the FileKind from the declared filename extension only.
func KindForFilename(filename string) (FileKind, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	kind, ok := AllowedExtensions[ext]
	return kind, ok
}

// AllowedExtensionList returns the accepted extensions, sorted.
func AllowedExtensionList() []string {
	exts := make([]string, 0, len(AllowedExtensions))
	for ext := range AllowedExtensions {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Channel is a canonical media channel code.
type Channel string

const (
	ChannelOOH     Channel = "ooh"
	ChannelTV      Channel = "tv"
	ChannelRadio   Channel = "radio"
	ChannelDigital Channel = "digital"
	ChannelPrint   Channel = "print"
	ChannelSocial  Channel = "social"
)

var channelAliases = map[string]Channel{
	"ooh":          ChannelOOH,
	"out-of-home":  ChannelOOH,
	"out of home":  ChannelOOH,
	"outdoor":      ChannelOOH,
	"dooh":         ChannelOOH,
	"billboard":    ChannelOOH,
	"tv":           ChannelTV,
	"television":   ChannelTV,
	"bvod":         ChannelTV,
	"broadcast tv": ChannelTV,
	"radio":        ChannelRadio,
	"audio":        ChannelRadio,
	"digital":      ChannelDigital,
	"online":       ChannelDigital,
	"display":      ChannelDigital,
	"programmatic": ChannelDigital,
	"print":        ChannelPrint,
	"press":        ChannelPrint,
	"magazine":     ChannelPrint,
	"newspaper":    ChannelPrint,
	"social":       ChannelSocial,
	"social media": ChannelSocial,
}

// ParseChannel normalizes a free-form channel label. Unknown labels yield "".
func ParseChannel(s string) Channel {
	return channelAliases[strings.ToLower(strings.TrimSpace(s))]
}

// IsBroadcast reports whether the channel sells time-based spots.
func (c Channel) IsBroadcast() bool {
	return c == ChannelTV || c == ChannelRadio
}

// BriefItemStatus represents the lifecycle of a deliverable in a brief.
type BriefItemStatus string

const (
	BriefItemStatusBriefed  BriefItemStatus = "briefed"
	BriefItemStatusReceived BriefItemStatus = "received"
	BriefItemStatusApproved BriefItemStatus = "approved"
	BriefItemStatusLive     BriefItemStatus = "live"
)

// SessionState is the lifecycle state of one import session.
type SessionState string

const (
	SessionIdle             SessionState = "idle"
	SessionFileSelected     SessionState = "file_selected"
	SessionExtracting       SessionState = "extracting"
	SessionExtractionFailed SessionState = "extraction_failed"
	SessionValidated        SessionState = "validated"
	SessionStaged           SessionState = "staged"
	SessionConfirmed        SessionState = "confirmed"
	SessionCancelled        SessionState = "cancelled"
)
