package content

import (
	"bytes"
	"strings"

	"mediabrief/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// extractCSV keeps the delimited text verbatim; the model reads it as-is.
// The first non-blank line is the header, so at least one more is required.
func extractCSV(data []byte) (*domain.CanonicalContent, error) {
	text := strings.ToValidUTF8(string(bytes.TrimPrefix(data, utf8BOM)), "�")

	var rows []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(strings.ReplaceAll(line, ",", "")) == "" {
			continue
		}
		rows = append(rows, line)
	}

	if len(rows) < 2 {
		return nil, domain.ErrEmptyDocument
	}
	return &domain.CanonicalContent{Rows: rows}, nil
}
