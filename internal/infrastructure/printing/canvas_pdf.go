package printing

import (
	"bytes"
	"time"

	"github.com/invoicegen/backend/internal/domain/printing"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// DefaultCreator is written to the document info dictionary
const DefaultCreator = "invoicegen"

// PDFCanvasConfig holds the configuration for a PDF canvas
type PDFCanvasConfig struct {
	Page       printing.Page
	FontFamily string
	Title      string
	Author     string
	Subject    string
	Creator    string
	// Timestamp is written as the creation and modification date.
	// Identical inputs with the same timestamp produce identical bytes.
	Timestamp time.Time
	Compress  bool
	Logger    *zap.Logger
}

// withDefaults returns a copy of the config with empty fields filled in
func (c PDFCanvasConfig) withDefaults() PDFCanvasConfig {
	if c.Page.Width == 0 && c.Page.Height == 0 {
		c.Page = printing.NewPage(printing.PaperSizeA4, printing.OrientationPortrait)
	}
	if c.FontFamily == "" {
		c.FontFamily = DefaultFontFamily
	}
	if c.Creator == "" {
		c.Creator = DefaultCreator
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// PDFCanvas is a single-page drawing surface backed by gofpdf.
// Coordinates are in points with the origin at the top-left corner and y
// increasing downward. Text is positioned by the top of its line box.
// A PDFCanvas is not safe for concurrent use; create one per document.
type PDFCanvas struct {
	pdf      *gofpdf.Fpdf
	config   PDFCanvasConfig
	metrics  FontMetrics
	encoder  *textEncoder
	fontSize float64
	finished bool
}

// NewPDFCanvas creates a canvas with one empty page
func NewPDFCanvas(config *PDFCanvasConfig) (*PDFCanvas, error) {
	var cfg PDFCanvasConfig
	if config != nil {
		cfg = *config
	}
	cfg = cfg.withDefaults()

	if cfg.Page.Width <= 0 || cfg.Page.Height <= 0 {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "page dimensions must be positive", nil)
	}
	metrics, ok := CoreFontMetrics(cfg.FontFamily)
	if !ok {
		return nil, NewRenderError(ErrCodeInvalidLayout, "unsupported font family: "+cfg.FontFamily, nil)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: cfg.Page.Width, Ht: cfg.Page.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(cfg.Compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(cfg.Timestamp)
	pdf.SetModificationDate(cfg.Timestamp)
	pdf.SetCreator(cfg.Creator, true)
	if cfg.Title != "" {
		pdf.SetTitle(cfg.Title, true)
	}
	if cfg.Author != "" {
		pdf.SetAuthor(cfg.Author, true)
	}
	if cfg.Subject != "" {
		pdf.SetSubject(cfg.Subject, true)
	}

	pdf.AddPage()
	pdf.SetFont(cfg.FontFamily, "", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(0, 0, 0)
	pdf.SetLineWidth(1)

	if err := pdf.Error(); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to initialize document", err)
	}

	return &PDFCanvas{
		pdf:      pdf,
		config:   cfg,
		metrics:  metrics,
		encoder:  newTextEncoder(),
		fontSize: 12,
	}, nil
}

// PageWidth returns the page width in points
func (c *PDFCanvas) PageWidth() float64 {
	return c.config.Page.Width
}

// PageHeight returns the page height in points
func (c *PDFCanvas) PageHeight() float64 {
	return c.config.Page.Height
}

// Measure returns the advance width of text at the given size
func (c *PDFCanvas) Measure(text string, fontSize float64) float64 {
	if text == "" {
		return 0
	}
	if fontSize == c.fontSize {
		return c.pdf.GetStringWidth(c.encoder.encode(text))
	}
	c.pdf.SetFontSize(fontSize)
	w := c.pdf.GetStringWidth(c.encoder.encode(text))
	c.pdf.SetFontSize(c.fontSize)
	return w
}

// LineHeight returns the line advance at the given size
func (c *PDFCanvas) LineHeight(fontSize float64) float64 {
	return c.metrics.LineHeight(fontSize)
}

// SetFontSize sets the size used by subsequent Text calls
func (c *PDFCanvas) SetFontSize(size float64) {
	if c.finished {
		return
	}
	c.fontSize = size
	c.pdf.SetFontSize(size)
}

// SetFillColor sets the color used for text and filled shapes
func (c *PDFCanvas) SetFillColor(color printing.Color) {
	if c.finished {
		return
	}
	r, g, b := int(color.R), int(color.G), int(color.B)
	c.pdf.SetFillColor(r, g, b)
	c.pdf.SetTextColor(r, g, b)
}

// SetStrokeColor sets the color used for lines
func (c *PDFCanvas) SetStrokeColor(color printing.Color) {
	if c.finished {
		return
	}
	c.pdf.SetDrawColor(int(color.R), int(color.G), int(color.B))
}

// Text draws one line of text whose line box starts at (x, y)
func (c *PDFCanvas) Text(text string, x, y float64) {
	if c.finished || text == "" {
		return
	}
	c.pdf.Text(x, y+c.metrics.Ascent(c.fontSize), c.encoder.encode(text))
}

// FillRect fills a rectangle with the current fill color
func (c *PDFCanvas) FillRect(x, y, w, h float64) {
	if c.finished {
		return
	}
	c.pdf.Rect(x, y, w, h, "F")
}

// StrokeLine draws a straight line with the current stroke color
func (c *PDFCanvas) StrokeLine(x1, y1, x2, y2 float64) {
	if c.finished {
		return
	}
	c.pdf.Line(x1, y1, x2, y2)
}

// Finish closes the document and returns the complete PDF bytes.
// It may be called once; the canvas accepts no drawing afterwards.
func (c *PDFCanvas) Finish() ([]byte, error) {
	if c.finished {
		return nil, NewRenderError(ErrCodeInvalidState, "document already finished", nil)
	}
	c.finished = true

	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		c.config.Logger.Error("Failed to write PDF", zap.Error(err))
		return nil, NewRenderError(ErrCodeStreamFailed, "failed to write document", err)
	}

	c.config.Logger.Debug("PDF document finished",
		zap.Int("size_bytes", buf.Len()),
		zap.Float64("page_width", c.config.Page.Width),
		zap.Float64("page_height", c.config.Page.Height),
	)
	return buf.Bytes(), nil
}
