package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"mediabrief/internal/domain"
)

// decodedOutput is the model's answer after field-by-field decoding.
type decodedOutput struct {
	DetectedChannel   string
	DetectedPublisher string
	Placements        []domain.PlacementRecord
	Dropped           int
}

// decodeModelOutput parses the model text. Only text with no recoverable JSON
// object is an error; wrong or missing fields decode as absent.
func decodeModelOutput(text string) (*decodedOutput, error) {
	obj, err := parseObject(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v (raw: %s)", domain.ErrExtraction, err, truncate(text, 500))
	}

	out := &decodedOutput{
		DetectedChannel:   stringField(obj, "detectedChannel"),
		DetectedPublisher: stringField(obj, "detectedPublisher"),
		Placements:        []domain.PlacementRecord{},
	}

	var items []json.RawMessage
	if raw, ok := obj["placements"]; ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			items = nil
		}
	}
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			out.Dropped++
			continue
		}
		out.Placements = append(out.Placements, placementFromFields(fields))
	}
	return out, nil
}

func parseObject(text string) (map[string]json.RawMessage, error) {
	s := stripCodeFence(strings.TrimSpace(text))

	var obj map[string]json.RawMessage
	err := json.Unmarshal([]byte(s), &obj)
	if err == nil && obj != nil {
		return obj, nil
	}

	// Prose around the object: fall back to the outermost braces.
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		if err2 := json.Unmarshal([]byte(s[start:end+1]), &obj); err2 == nil && obj != nil {
			return obj, nil
		}
	}
	if err == nil {
		err = fmt.Errorf("response is not a JSON object")
	}
	return nil, err
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.Index(s, "\n"); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func placementFromFields(f map[string]json.RawMessage) domain.PlacementRecord {
	return domain.PlacementRecord{
		SiteName:     stringField(f, "siteName"),
		Location:     stringField(f, "location"),
		Suburb:       stringField(f, "suburb"),
		State:        stringField(f, "state"),
		Format:       stringField(f, "format"),
		Dimensions:   stringField(f, "dimensions"),
		PhysicalSize: stringField(f, "physicalSize"),
		FileFormat:   stringField(f, "fileFormat"),
		StartDate:    stringField(f, "startDate"),
		EndDate:      stringField(f, "endDate"),
		Daypart:      stringField(f, "daypart"),
		Spots:        stringField(f, "spots"),
		Station:      stringField(f, "station"),
		SpotLength:   stringField(f, "spotLength"),
		PanelID:      stringField(f, "panelId"),
		Direction:    stringField(f, "direction"),
		Restrictions: stringField(f, "restrictions"),
		Notes:        stringField(f, "notes"),
	}
}

// stringField reads a string or number; any other JSON type is absent.
// Numbers keep their literal text, so long site codes survive unchanged.
func stringField(f map[string]json.RawMessage, key string) string {
	raw, ok := f[key]
	if !ok {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
