package layout

import (
	"fmt"
	"strings"

	"github.com/invoicegen/backend/internal/domain/printing"
	"github.com/invoicegen/backend/internal/infrastructure/config"
	infraprinting "github.com/invoicegen/backend/internal/infrastructure/printing"
)

// Column identifies a numeric table column
type Column string

const (
	ColumnQuantity Column = "QUANTITY"
	ColumnRate     Column = "RATE"
	ColumnAmount   Column = "AMOUNT"
)

// DefaultColumnOrder is the left-to-right order of the numeric columns
var DefaultColumnOrder = []Column{ColumnQuantity, ColumnRate, ColumnAmount}

// ParseColumn converts a name to a Column
func ParseColumn(name string) (Column, error) {
	c := Column(strings.ToUpper(strings.TrimSpace(name)))
	switch c {
	case ColumnQuantity, ColumnRate, ColumnAmount:
		return c, nil
	}
	return "", infraprinting.NewRenderError(infraprinting.ErrCodeInvalidLayout, "unknown column: "+name, nil)
}

// FontSizes holds the font size of each document part in points
type FontSizes struct {
	Sender float64
	Number float64
	Date   float64
	Title  float64
	Block  float64
	Table  float64
}

// Labels holds every fixed text printed on the document
type Labels struct {
	Title        string
	NumberPrefix string
	Item         string
	Quantity     string
	Rate         string
	Amount       string
	Subtotal     string
	BillTo       string
	ShipTo       string
	Details      string
	PONumber     string
	PaymentTerms string
	DueDate      string
	Notes        string
	Terms        string
}

// Column returns the header label of a numeric column
func (l Labels) Column(c Column) string {
	switch c {
	case ColumnQuantity:
		return l.Quantity
	case ColumnRate:
		return l.Rate
	case ColumnAmount:
		return l.Amount
	}
	return ""
}

// Colors holds the colors used by the document
type Colors struct {
	Text       printing.Color
	HeaderFill printing.Color
	HeaderText printing.Color
	Line       printing.Color
}

// Layout is the complete geometric configuration of an invoice page.
// All lengths are in points.
type Layout struct {
	Page    printing.Page
	Margins printing.Margins

	// CellPadding is the gutter between numeric columns
	CellPadding float64
	// TextPadding insets table text from the banner edges
	TextPadding float64
	RowHeight   float64
	// HeaderTextOffset is the distance from the banner top to its labels
	HeaderTextOffset float64
	// SeparatorOffset is the distance below the header block to the rule
	SeparatorOffset float64
	TitleOffset     float64
	BlockGap        float64

	Fonts   FontSizes
	Colors  Colors
	Labels  Labels
	Columns []Column

	// DateLayout is a Go time layout used for the issue and due dates
	DateLayout string
}

// DefaultLayout returns the standard A4 invoice layout
func DefaultLayout() Layout {
	return Layout{
		Page:             printing.NewPage(printing.PaperSizeA4, printing.OrientationPortrait),
		Margins:          printing.DefaultMargins(),
		CellPadding:      20,
		TextPadding:      4,
		RowHeight:        20,
		HeaderTextOffset: 6,
		SeparatorOffset:  5,
		TitleOffset:      3,
		BlockGap:         10,
		Fonts: FontSizes{
			Sender: 10,
			Number: 12,
			Date:   10,
			Title:  24,
			Block:  8,
			Table:  10,
		},
		Colors: Colors{
			Text:       printing.Black,
			HeaderFill: printing.Black,
			HeaderText: printing.White,
			Line:       printing.Black,
		},
		Labels: Labels{
			Title:        "INVOICE",
			NumberPrefix: "# ",
			Item:         "ITEM",
			Quantity:     "QUANTITY",
			Rate:         "RATE",
			Amount:       "AMOUNT",
			Subtotal:     "SUBTOTAL",
			BillTo:       "BILL TO",
			ShipTo:       "SHIP TO",
			Details:      "DETAILS",
			PONumber:     "PO number",
			PaymentTerms: "Payment terms",
			DueDate:      "Due date",
			Notes:        "NOTES",
			Terms:        "TERMS",
		},
		Columns:    append([]Column(nil), DefaultColumnOrder...),
		DateLayout: "1/2/2006",
	}
}

// FromConfig builds a Layout from the printing configuration section.
// Fields the configuration leaves at zero keep their default values.
func FromConfig(cfg *config.PrintingConfig) (*Layout, error) {
	l := DefaultLayout()
	if cfg == nil {
		return &l, nil
	}

	if cfg.PaperSize != "" {
		size := printing.PaperSize(strings.ToUpper(cfg.PaperSize))
		if !size.IsValid() {
			return nil, infraprinting.NewRenderError(infraprinting.ErrCodeInvalidPaperSize, "unsupported paper size: "+cfg.PaperSize, nil)
		}
		orientation := printing.OrientationPortrait
		if cfg.Orientation != "" {
			orientation = printing.Orientation(strings.ToUpper(cfg.Orientation))
			if !orientation.IsValid() {
				return nil, infraprinting.NewRenderError(infraprinting.ErrCodeInvalidLayout, "unsupported orientation: "+cfg.Orientation, nil)
			}
		}
		l.Page = printing.NewPage(size, orientation)
	}

	if cfg.Margin > 0 {
		l.Margins = printing.UniformMargins(cfg.Margin)
	}
	if cfg.CellPadding > 0 {
		l.CellPadding = cfg.CellPadding
	}
	if cfg.TextPadding > 0 {
		l.TextPadding = cfg.TextPadding
	}
	if cfg.RowHeight > 0 {
		l.RowHeight = cfg.RowHeight
	}
	if cfg.TableFontSize > 0 {
		l.Fonts.Table = cfg.TableFontSize
	}
	if cfg.TitleFontSize > 0 {
		l.Fonts.Title = cfg.TitleFontSize
	}
	if cfg.Title != "" {
		l.Labels.Title = cfg.Title
	}
	if cfg.DateLayout != "" {
		l.DateLayout = cfg.DateLayout
	}
	if len(cfg.Columns) > 0 {
		columns := make([]Column, 0, len(cfg.Columns))
		for _, name := range cfg.Columns {
			c, err := ParseColumn(name)
			if err != nil {
				return nil, err
			}
			columns = append(columns, c)
		}
		l.Columns = columns
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// ContentWidth returns the width between the left and right margins
func (l *Layout) ContentWidth() float64 {
	return l.Page.Width - l.Margins.Left - l.Margins.Right
}

// Validate checks the layout for values that cannot produce a usable page
func (l *Layout) Validate() error {
	invalid := func(format string, args ...any) error {
		return infraprinting.NewRenderError(infraprinting.ErrCodeInvalidLayout, fmt.Sprintf(format, args...), nil)
	}

	if l.Page.Width <= 0 || l.Page.Height <= 0 {
		return infraprinting.NewRenderError(infraprinting.ErrCodeInvalidPaperSize, "page dimensions must be positive", nil)
	}
	m := l.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return invalid("margins cannot be negative")
	}
	if l.ContentWidth() <= 0 || m.Top+m.Bottom >= l.Page.Height {
		return invalid("margins leave no content area")
	}
	if l.CellPadding < 0 || l.TextPadding < 0 {
		return invalid("paddings cannot be negative")
	}
	if l.RowHeight <= 0 {
		return invalid("row height must be positive")
	}
	if l.HeaderTextOffset < 0 || l.SeparatorOffset < 0 || l.TitleOffset < 0 || l.BlockGap < 0 {
		return invalid("offsets cannot be negative")
	}

	sizes := map[string]float64{
		"sender": l.Fonts.Sender,
		"number": l.Fonts.Number,
		"date":   l.Fonts.Date,
		"title":  l.Fonts.Title,
		"block":  l.Fonts.Block,
		"table":  l.Fonts.Table,
	}
	for name, size := range sizes {
		if size <= 0 {
			return invalid("%s font size must be positive", name)
		}
	}

	if l.Labels.Item == "" || l.Labels.Quantity == "" || l.Labels.Rate == "" || l.Labels.Amount == "" {
		return invalid("table labels cannot be empty")
	}
	if l.DateLayout == "" {
		return invalid("date layout cannot be empty")
	}

	if len(l.Columns) != len(DefaultColumnOrder) {
		return invalid("column order must list %d columns", len(DefaultColumnOrder))
	}
	seen := make(map[Column]bool, len(l.Columns))
	for _, c := range l.Columns {
		if l.Labels.Column(c) == "" {
			return invalid("unknown column: %s", c)
		}
		if seen[c] {
			return invalid("duplicate column: %s", c)
		}
		seen[c] = true
	}
	return nil
}
