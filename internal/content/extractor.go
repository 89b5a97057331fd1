// Package content normalizes uploaded schedule files into the canonical
// payload consumed by the extraction client.
package content

import (
	"context"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"

	"mediabrief/internal/domain"
	"mediabrief/internal/metrics"
)

// Extractor converts raw schedule bytes into CanonicalContent.
type Extractor struct {
	renderer PageRenderer
	maxPages int
}

// NewExtractor creates an Extractor. maxPages <= 0 renders every page.
func NewExtractor(renderer PageRenderer, maxPages int) *Extractor {
	return &Extractor{renderer: renderer, maxPages: maxPages}
}

// Extract dispatches on the declared filename extension only. The byte content
// never changes the route: a .pdf is always rendered to page images.
func (e *Extractor) Extract(ctx context.Context, data []byte, filename string, trail *domain.DebugTrail) (*domain.CanonicalContent, error) {
	kind, ok := domain.KindForFilename(filename)
	if !ok {
		trail.Add("rejected %q: unsupported file extension", filename)
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filename)
	}
	trail.Add("received %q (%d bytes) as %s; sniffed %s", filename, len(data), kind, mimetype.Detect(data).String())

	start := time.Now()
	var (
		out *domain.CanonicalContent
		err error
	)
	switch kind {
	case domain.FileKindSpreadsheet:
		out, err = extractSpreadsheet(data)
	case domain.FileKindCSV:
		out, err = extractCSV(data)
	case domain.FileKindPDF:
		out, err = e.extractPDF(ctx, data, trail)
	}
	metrics.ContentExtractDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		trail.Add("content extraction failed: %v", err)
		log.Warn().Err(err).Str("file", filename).Msg("content.Extractor: extraction failed")
		return nil, err
	}

	out.Kind = kind
	out.SourceName = filename
	if out.IsImage() {
		trail.Add("rendered %d page image(s) from PDF", len(out.Pages))
	} else {
		trail.Add("normalized %d text row(s) from %s", dataRowCount(out.Rows), kind)
	}
	return out, nil
}
