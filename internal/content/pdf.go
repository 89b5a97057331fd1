package content

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/sync/errgroup"

	"mediabrief/internal/domain"
)

// PageRenderer rasterizes PDF pages. PDF content always reaches the model as
// page images, never as extracted text.
type PageRenderer interface {
	PageCount(data []byte) (int, error)
	Render(ctx context.Context, data []byte, pages int) ([]domain.PageImage, error)
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte, trail *domain.DebugTrail) (*domain.CanonicalContent, error) {
	count, err := e.renderer.PageCount(data)
	if err != nil {
		return nil, fmt.Errorf("%w: reading pdf: %v", domain.ErrEmptyDocument, err)
	}
	if count < 1 {
		return nil, domain.ErrEmptyDocument
	}

	pages := count
	if e.maxPages > 0 && pages > e.maxPages {
		trail.Add("pdf has %d pages; rendering the first %d", count, e.maxPages)
		pages = e.maxPages
	}

	images, err := e.renderer.Render(ctx, data, pages)
	if err != nil {
		return nil, fmt.Errorf("rendering pdf pages: %w", err)
	}
	if len(images) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	return &domain.CanonicalContent{Pages: images}, nil
}

// ImageMagickRenderer renders PDF pages to PNG through document-context.
type ImageMagickRenderer struct {
	dpi int
}

// NewImageMagickRenderer creates a renderer producing PNG pages at the given DPI.
func NewImageMagickRenderer(dpi int) *ImageMagickRenderer {
	if dpi == 0 {
		dpi = 150
	}
	return &ImageMagickRenderer{dpi: dpi}
}

func (r *ImageMagickRenderer) PageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
}

// Render rasterizes pages 1..pages in parallel. Each worker opens its own
// handle on the document; results are returned in page order.
func (r *ImageMagickRenderer) Render(ctx context.Context, data []byte, pages int) ([]domain.PageImage, error) {
	tmp, err := os.CreateTemp("", "schedule-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	out := make([]domain.PageImage, pages)
	workers := max(min(runtime.NumCPU(), pages), 1)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			return r.renderWorker(gctx, tmp.Name(), w, workers, out)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ImageMagickRenderer) renderWorker(ctx context.Context, path string, offset, stride int, out []domain.PageImage) error {
	doc, err := document.OpenPDF(path)
	if err != nil {
		return fmt.Errorf("opening pdf: %w", err)
	}
	defer doc.Close()

	renderer, err := image.NewImageMagickRenderer(config.ImageConfig{
		Format:  "png",
		DPI:     r.dpi,
		Options: map[string]any{"background": "white"},
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	for i := offset; i < len(out); i += stride {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := doc.ExtractPage(i + 1)
		if err != nil {
			return fmt.Errorf("extracting page %d: %w", i+1, err)
		}
		png, err := page.ToImage(renderer, nil)
		if err != nil {
			return fmt.Errorf("rendering page %d: %w", i+1, err)
		}
		out[i] = domain.PageImage{Number: i + 1, MimeType: "image/png", Data: png}
	}
	return nil
}
