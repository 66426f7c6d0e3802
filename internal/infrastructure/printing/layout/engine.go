package layout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/invoicegen/backend/internal/domain/invoice"
	infraprinting "github.com/invoicegen/backend/internal/infrastructure/printing"
	"github.com/invoicegen/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultFilename is the download name of a rendered invoice
const DefaultFilename = "invoice.pdf"

// Result is a completed render
type Result struct {
	PDFData  []byte
	Filename string
	Rows     int
	Subtotal decimal.Decimal
	Anchors  Anchors
}

// Engine renders invoices with one Layout.
// Engine holds no per-render state and is safe for concurrent use.
type Engine struct {
	layout  Layout
	factory CanvasFactory
	logger  *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithCanvasFactory sets the canvas factory. The default produces gofpdf
// canvases with default settings.
func WithCanvasFactory(factory CanvasFactory) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine. A nil layout uses DefaultLayout.
func NewEngine(l *Layout, opts ...Option) (*Engine, error) {
	e := &Engine{
		layout:  DefaultLayout(),
		factory: PDFCanvasFactory(infraprinting.PDFCanvasConfig{Compress: true}),
		logger:  zap.NewNop(),
	}
	if l != nil {
		e.layout = *l
		e.layout.Columns = append([]Column(nil), l.Columns...)
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.layout.Validate(); err != nil {
		return nil, err
	}
	if e.factory == nil {
		return nil, infraprinting.NewRenderError(infraprinting.ErrCodeInvalidLayout, "canvas factory is required", nil)
	}
	return e, nil
}

// Layout returns a copy of the engine's layout
func (e *Engine) Layout() Layout {
	l := e.layout
	l.Columns = append([]Column(nil), e.layout.Columns...)
	return l
}

// Render lays out inv on a fresh canvas and returns the finished document.
// The context is only checked before drawing starts; once the first draw is
// issued the render runs to completion or stream failure.
func (e *Engine) Render(ctx context.Context, inv *invoice.Invoice) (*Result, error) {
	if inv == nil {
		return nil, infraprinting.NewRenderError(infraprinting.ErrCodeInvalidInvoice, "invoice is required", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, infraprinting.NewRenderError(infraprinting.ErrCodeRenderFailed, "render canceled", err)
	}

	ctx, span := telemetry.StartSpan(ctx, "layout.render")
	defer span.End()

	start := time.Now()
	canvas, err := e.factory(ctx, DocumentInfo{
		Title:  fmt.Sprintf("Invoice #%d", inv.Number),
		Author: firstLine(inv.From),
		Page:   e.layout.Page,
	})
	if err != nil {
		err = infraprinting.NewRenderError(infraprinting.ErrCodeRenderFailed, "failed to create canvas", err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	s := newSession(&e.layout, canvas, e.logger.With(zap.Int64("invoice_number", inv.Number)))
	s.span = span
	data, err := s.render(inv)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrLayoutRows, s.rows)

	subtotal := inv.Subtotal()
	e.logger.Debug("Invoice rendered",
		zap.Int64("invoice_number", inv.Number),
		zap.Int("rows", s.rows),
		zap.String("subtotal", subtotal.String()),
		zap.Int("size_bytes", len(data)),
		zap.Duration("duration", time.Since(start)),
	)

	return &Result{
		PDFData:  data,
		Filename: DefaultFilename,
		Rows:     s.rows,
		Subtotal: subtotal,
		Anchors:  s.anchors,
	}, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(lineBreaks.Replace(s), "\n")
	return strings.TrimSpace(line)
}
