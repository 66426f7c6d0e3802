package layout

import (
	"github.com/invoicegen/backend/internal/domain/invoice"
)

// table draws the banner header, line item rows and subtotal against one
// set of anchors
type table struct {
	layout  *Layout
	anchors Anchors
}

func newTable(l *Layout, anchors Anchors) *table {
	return &table{layout: l, anchors: anchors}
}

func (t *table) cell(c Column, text string) Cell {
	return Cell{Text: text, Anchor: t.anchors.X(c), Align: t.anchors.Align(c)}
}

// drawHeader fills the banner across the content width, prints the labels
// in the header text color and leaves the cursor half a row below them
func (t *table) drawHeader(c *Cursor) {
	l := t.layout
	top := c.Y()

	c.WithFill(l.Colors.HeaderFill, func() {
		c.Rect(l.Margins.Left, top, l.ContentWidth(), l.RowHeight)
	})

	c.WithFill(l.Colors.HeaderText, func() {
		c.MoveTo(l.Margins.Left+l.TextPadding, top+l.HeaderTextOffset)
		cells := []Cell{{Text: l.Labels.Item, Anchor: c.X(), Align: AlignLeft}}
		for _, col := range t.anchors.order {
			cells = append(cells, t.cell(col, l.Labels.Column(col)))
		}
		c.Row(cells, l.RowHeight/2)
	})
}

// drawRow prints one line item: the description at the left, then the
// numeric columns from right to left, all on one baseline
func (t *table) drawRow(c *Cursor, item invoice.LineItem, currency invoice.Currency) float64 {
	values := map[Column]string{
		ColumnQuantity: item.Quantity.String(),
		ColumnRate:     currency.Format(item.Rate),
		ColumnAmount:   currency.Format(item.Amount()),
	}

	cells := []Cell{{Text: item.Description, Anchor: c.X(), Align: AlignLeft}}
	order := t.anchors.order
	for i := len(order) - 1; i >= 0; i-- {
		cells = append(cells, t.cell(order[i], values[order[i]]))
	}
	return c.Row(cells, t.layout.RowHeight/2)
}

// drawSubtotal prints the subtotal value in the amount column with its label
// ending one cell padding to the left of the value
func (t *table) drawSubtotal(c *Cursor, text string) float64 {
	l := t.layout
	value := t.cell(ColumnAmount, text)
	labelAnchor := value.Align.X(value.Anchor, c.Measure(text)) - l.CellPadding

	return c.Row([]Cell{
		{Text: l.Labels.Subtotal, Anchor: labelAnchor, Align: AlignRight},
		value,
	}, l.RowHeight/2)
}
