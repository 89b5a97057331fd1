package parser

import "strings"

// placementSchema is the exact JSON object the model must return.
const placementSchema = `{
  "detectedChannel": "",
  "detectedPublisher": "",
  "placements": [
    {
      "siteName": "",
      "location": "",
      "suburb": "",
      "state": "",
      "format": "",
      "dimensions": "",
      "physicalSize": "",
      "fileFormat": "",
      "startDate": "",
      "endDate": "",
      "daypart": "",
      "spots": "",
      "station": "",
      "spotLength": "",
      "panelId": "",
      "direction": "",
      "restrictions": "",
      "notes": ""
    }
  ]
}`

const genericNameReinforcement = `
CRITICAL, SITE NAMES:
- A previous extraction of this schedule returned placeholder names such as "Site 1", "Placement", "Unnamed" or bare numbers. Those are NOT acceptable.
- "siteName" MUST be the real identifier printed in the schedule: the site/panel code, the street address or landmark, the station call sign, or the program/slot name.
- If a row only carries a panel or site code, use that code as "siteName". Never invent sequential names.`

// BuildPlacementPrompt returns the extraction instruction for a media schedule.
// Declared channel and publisher are hints only; the model reports what it sees.
func BuildPlacementPrompt(channel, publisher string, reinforced bool) string {
	var b strings.Builder
	b.WriteString(`You are a media schedule data extraction assistant. Analyze the provided advertising schedule (a spreadsheet, CSV export, or rendered PDF pages) and extract EVERY bookable placement into the following JSON structure.

The operator declared this schedule as channel "` + channel + `" from publisher "` + publisher + `".

IMPORTANT INSTRUCTIONS:
- The schedule may span multiple sheets or pages. Extract ALL placements from every sheet and page into the single flat "placements" array. Do not skip, summarize, or merge rows.
- One placement per bookable unit: a billboard face, a screen, a TV/radio spot length on a station, a digital ad slot.
- "siteName" is required for every placement and must be the site/unit identifier exactly as it appears in the schedule.
- Normalize all dates to YYYY-MM-DD. Strip weekdays, times and annotations.
- "dimensions" is the pixel or artwork size (e.g. "1920x1080"); "physicalSize" is the physical face size (e.g. "6m x 3m").
- "spotLength" is the spot duration for TV/Radio (e.g. "30s"). "fileFormat" is the delivery file type (e.g. "MP4", "JPG", "HTML5").
- "detectedChannel" is one of: ooh, tv, radio, digital, print, social. "detectedPublisher" is the media owner named in the document.
- Every value is a string. If a field is not present in the schedule, use an empty string.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation. Just one raw JSON object matching this schema exactly:
`)
	b.WriteString(placementSchema)
	if reinforced {
		b.WriteString("\n")
		b.WriteString(genericNameReinforcement)
	}
	return b.String()
}
