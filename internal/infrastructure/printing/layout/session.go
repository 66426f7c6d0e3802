package layout

import (
	"fmt"

	"github.com/invoicegen/backend/internal/domain/invoice"
	infraprinting "github.com/invoicegen/backend/internal/infrastructure/printing"
	"github.com/invoicegen/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// stage is the progress of one render. Stages only move forward.
type stage int

const (
	stageIdle stage = iota
	stageHeaderDrawn
	stageMetadataDrawn
	stageTableHeaderDrawn
	stageRowsDrawn
	stageSubtotalDrawn
	stageFinalized
)

func (s stage) String() string {
	switch s {
	case stageIdle:
		return "idle"
	case stageHeaderDrawn:
		return "header_drawn"
	case stageMetadataDrawn:
		return "metadata_drawn"
	case stageTableHeaderDrawn:
		return "table_header_drawn"
	case stageRowsDrawn:
		return "rows_drawn"
	case stageSubtotalDrawn:
		return "subtotal_drawn"
	case stageFinalized:
		return "finalized"
	}
	return "unknown"
}

var stageTransitions = map[stage][]stage{
	stageIdle:             {stageHeaderDrawn},
	stageHeaderDrawn:      {stageMetadataDrawn, stageTableHeaderDrawn},
	stageMetadataDrawn:    {stageTableHeaderDrawn},
	stageTableHeaderDrawn: {stageRowsDrawn},
	stageRowsDrawn:        {stageRowsDrawn, stageSubtotalDrawn},
	stageSubtotalDrawn:    {stageFinalized},
}

// session is a single-use render: one canvas, one cursor, one set of anchors
type session struct {
	layout  *Layout
	canvas  Canvas
	cursor  *Cursor
	anchors Anchors
	table   *table
	stage   stage
	rows    int
	logger  *zap.Logger
	span    trace.Span
}

func newSession(l *Layout, canvas Canvas, logger *zap.Logger) *session {
	return &session{
		layout: l,
		canvas: canvas,
		logger: logger,
	}
}

func (s *session) transition(next stage) error {
	for _, allowed := range stageTransitions[s.stage] {
		if allowed == next {
			// one event per stage, not per row
			if next != s.stage {
				telemetry.AddEvent(s.span, "layout."+next.String())
			}
			s.stage = next
			return nil
		}
	}
	return infraprinting.NewRenderError(infraprinting.ErrCodeInvalidState,
		fmt.Sprintf("cannot move from %s to %s", s.stage, next), nil)
}

func (s *session) render(inv *invoice.Invoice) ([]byte, error) {
	if err := s.drawHeader(inv); err != nil {
		return nil, err
	}
	if err := s.drawMetadata(inv); err != nil {
		return nil, err
	}
	if err := s.drawTableHeader(); err != nil {
		return nil, err
	}
	if err := s.drawRows(inv); err != nil {
		return nil, err
	}
	if err := s.drawSubtotal(inv); err != nil {
		return nil, err
	}
	return s.finalize()
}

// drawHeader prints the sender at the top left with the invoice number and
// date right-aligned beside it, the separator rule and the title
func (s *session) drawHeader(inv *invoice.Invoice) error {
	if err := s.transition(stageHeaderDrawn); err != nil {
		return err
	}
	l := s.layout
	right := l.Page.Width - l.Margins.Right

	s.canvas.SetStrokeColor(l.Colors.Line)
	c := NewCursor(s.canvas, l.Margins.Left, l.Margins.Top, l.Fonts.Sender, l.Colors.Text)
	s.cursor = c

	top := c.Y()
	c.Text(inv.From)
	senderBottom := c.Y()

	c.MoveTo(l.Margins.Left, top)
	c.SetFontSize(l.Fonts.Number)
	c.Right(fmt.Sprintf("%s%d", l.Labels.NumberPrefix, inv.Number), right)

	if inv.Date != nil {
		c.SetFontSize(l.Fonts.Date)
		c.Right(inv.Date.Format(l.DateLayout), right)
	}
	c.MoveTo(l.Margins.Left, max(c.Y(), senderBottom))

	ruleY := c.Y() + l.SeparatorOffset
	c.Line(l.Margins.Left, ruleY, right, ruleY)
	c.MoveDown(1)

	c.SetFontSize(l.Fonts.Title)
	c.TextAt(l.Labels.Title, l.Margins.Left, c.Y()+l.TitleOffset)
	c.MoveDown(1)
	return nil
}

type textBlock struct {
	label string
	lines []string
}

func (s *session) metadataBlocks(inv *invoice.Invoice) []textBlock {
	l := s.layout
	var blocks []textBlock
	if inv.BillTo != "" {
		blocks = append(blocks, textBlock{label: l.Labels.BillTo, lines: splitLines(inv.BillTo)})
	}
	if inv.ShipTo != "" {
		blocks = append(blocks, textBlock{label: l.Labels.ShipTo, lines: splitLines(inv.ShipTo)})
	}
	if inv.HasDetails() {
		var lines []string
		if inv.PONumber != "" {
			lines = append(lines, l.Labels.PONumber+": "+flatten(inv.PONumber))
		}
		if inv.PaymentTerms != "" {
			lines = append(lines, l.Labels.PaymentTerms+": "+flatten(inv.PaymentTerms))
		}
		if inv.DueDate != nil {
			lines = append(lines, l.Labels.DueDate+": "+inv.DueDate.Format(l.DateLayout))
		}
		blocks = append(blocks, textBlock{label: l.Labels.Details, lines: lines})
	}
	return blocks
}

// drawMetadata lays the optional blocks side by side from the left margin.
// Each block steps right by the larger of three label widths and its widest
// line plus the cell padding. The cursor ends at the left margin below the
// tallest block.
func (s *session) drawMetadata(inv *invoice.Invoice) error {
	blocks := s.metadataBlocks(inv)
	if len(blocks) == 0 {
		return nil
	}
	if err := s.transition(stageMetadataDrawn); err != nil {
		return err
	}
	l := s.layout
	c := s.cursor

	c.SetFontSize(l.Fonts.Block)
	top := c.Y()
	bottom := top
	x := l.Margins.Left
	for _, b := range blocks {
		c.TextAt(b.label, x, top)
		widest := 0.0
		for _, line := range b.lines {
			c.Text(line)
			widest = max(widest, c.Measure(line))
		}
		bottom = max(bottom, c.Y())
		x += max(c.Measure(b.label)*3, widest+l.CellPadding)
	}
	c.MoveTo(l.Margins.Left, bottom+l.BlockGap)
	return nil
}

// drawTableHeader computes the anchors at the table font size and draws the
// banner with them
func (s *session) drawTableHeader() error {
	if err := s.transition(stageTableHeaderDrawn); err != nil {
		return err
	}
	l := s.layout
	c := s.cursor

	c.SetFontSize(l.Fonts.Table)
	s.anchors = ComputeColumnAnchors(l.Columns, l.Page.Width, l.Margins.Right, l.CellPadding, l.TextPadding, l.Labels,
		func(text string) float64 { return s.canvas.Measure(text, l.Fonts.Table) })
	s.table = newTable(l, s.anchors)

	s.logger.Debug("Computed column anchors",
		zap.Float64("quantity_x", s.anchors.QuantityX),
		zap.Float64("rate_x", s.anchors.RateX),
		zap.Float64("amount_x", s.anchors.AmountX),
	)

	c.MoveTo(l.Margins.Left, c.Y())
	s.table.drawHeader(c)
	return nil
}

// drawRows prints one row block per line item in order
func (s *session) drawRows(inv *invoice.Invoice) error {
	if len(inv.LineItems) == 0 {
		return s.transition(stageRowsDrawn)
	}
	for _, item := range inv.LineItems {
		if err := s.transition(stageRowsDrawn); err != nil {
			return err
		}
		s.table.drawRow(s.cursor, item, inv.Currency)
		s.rows++
	}
	return nil
}

// drawSubtotal prints the subtotal row followed by the notes and terms blocks
func (s *session) drawSubtotal(inv *invoice.Invoice) error {
	if err := s.transition(stageSubtotalDrawn); err != nil {
		return err
	}
	l := s.layout
	c := s.cursor

	s.table.drawSubtotal(c, inv.FormatAmount(inv.Subtotal()))

	footer := []textBlock{}
	if inv.Notes != "" {
		footer = append(footer, textBlock{label: l.Labels.Notes, lines: splitLines(inv.Notes)})
	}
	if inv.Terms != "" {
		footer = append(footer, textBlock{label: l.Labels.Terms, lines: splitLines(inv.Terms)})
	}
	if len(footer) == 0 {
		return nil
	}

	c.SetFontSize(l.Fonts.Block)
	c.MoveTo(l.Margins.Left, c.Y()+l.BlockGap)
	for _, b := range footer {
		c.Text(b.label)
		for _, line := range b.lines {
			c.Text(line)
		}
		c.MoveTo(l.Margins.Left, c.Y()+l.BlockGap)
	}
	return nil
}

func (s *session) finalize() ([]byte, error) {
	if err := s.transition(stageFinalized); err != nil {
		return nil, err
	}
	data, err := s.canvas.Finish()
	if err != nil {
		s.logger.Error("Failed to finalize document", zap.Error(err))
		return nil, infraprinting.NewRenderError(infraprinting.ErrCodeStreamFailed, "failed to finalize document", err)
	}
	return data, nil
}
