package layout

import (
	"context"

	"github.com/invoicegen/backend/internal/domain/printing"
	infraprinting "github.com/invoicegen/backend/internal/infrastructure/printing"
)

// Canvas is the drawing capability the engine lays out on.
// Coordinates are points from the top-left corner; Text positions the top of
// the line box. Finish completes the document and returns its bytes, or the
// stream failure that prevented it.
type Canvas interface {
	Measure(text string, fontSize float64) float64
	LineHeight(fontSize float64) float64
	SetFontSize(size float64)
	SetFillColor(color printing.Color)
	SetStrokeColor(color printing.Color)
	Text(text string, x, y float64)
	FillRect(x, y, w, h float64)
	StrokeLine(x1, y1, x2, y2 float64)
	Finish() ([]byte, error)
}

// DocumentInfo is the metadata handed to a canvas factory
type DocumentInfo struct {
	Title   string
	Author  string
	Subject string
	Page    printing.Page
}

// CanvasFactory creates a fresh canvas for one render
type CanvasFactory func(ctx context.Context, info DocumentInfo) (Canvas, error)

// PDFCanvasFactory returns a factory producing gofpdf canvases.
// base supplies the settings shared by every document; page and metadata
// come from the render.
func PDFCanvasFactory(base infraprinting.PDFCanvasConfig) CanvasFactory {
	return func(_ context.Context, info DocumentInfo) (Canvas, error) {
		cfg := base
		cfg.Page = info.Page
		cfg.Title = info.Title
		cfg.Subject = info.Subject
		if cfg.Author == "" {
			cfg.Author = info.Author
		}
		canvas, err := infraprinting.NewPDFCanvas(&cfg)
		if err != nil {
			return nil, err
		}
		return canvas, nil
	}
}
