package layout

import (
	"strings"

	"github.com/invoicegen/backend/internal/domain/printing"
)

// Cell is one table cell drawn against a horizontal anchor
type Cell struct {
	Text   string
	Anchor float64
	Align  Align
}

// Cursor tracks the draw position, font size and fill color of one render.
// Every text draw advances y by one line height at the current font size.
// A Cursor belongs to a single render and must not be shared.
type Cursor struct {
	canvas   Canvas
	x, y     float64
	fontSize float64
	fill     printing.Color
}

// NewCursor creates a cursor at (x, y) and applies its font size and fill
func NewCursor(canvas Canvas, x, y, fontSize float64, fill printing.Color) *Cursor {
	c := &Cursor{canvas: canvas, x: x, y: y}
	c.SetFontSize(fontSize)
	c.SetFill(fill)
	return c
}

func (c *Cursor) X() float64               { return c.x }
func (c *Cursor) Y() float64               { return c.y }
func (c *Cursor) FontSize() float64        { return c.fontSize }
func (c *Cursor) Fill() printing.Color     { return c.fill }
func (c *Cursor) LineHeight() float64      { return c.canvas.LineHeight(c.fontSize) }
func (c *Cursor) Measure(s string) float64 { return c.canvas.Measure(s, c.fontSize) }

// SetFontSize changes the font size for all following draws
func (c *Cursor) SetFontSize(size float64) {
	c.fontSize = size
	c.canvas.SetFontSize(size)
}

// SetFill changes the fill color for all following draws
func (c *Cursor) SetFill(color printing.Color) {
	c.fill = color
	c.canvas.SetFillColor(color)
}

// WithFontSize runs fn with a font size and restores the previous one
func (c *Cursor) WithFontSize(size float64, fn func()) {
	prev := c.fontSize
	c.SetFontSize(size)
	defer c.SetFontSize(prev)
	fn()
}

// WithFill runs fn with a fill color and restores the previous one
func (c *Cursor) WithFill(color printing.Color, fn func()) {
	prev := c.fill
	c.SetFill(color)
	defer c.SetFill(prev)
	fn()
}

// MoveTo sets the position without drawing
func (c *Cursor) MoveTo(x, y float64) {
	c.x, c.y = x, y
}

// MoveUp rewinds the position by n lines at the current font size
func (c *Cursor) MoveUp(n int) {
	c.y -= float64(n) * c.LineHeight()
}

// MoveDown advances the position by n lines at the current font size
func (c *Cursor) MoveDown(n int) {
	c.y += float64(n) * c.LineHeight()
}

// Text draws s at the current position. Each line of s is drawn on its own
// line and advances the cursor; an empty string draws nothing.
func (c *Cursor) Text(s string) {
	if s == "" {
		return
	}
	for _, line := range splitLines(s) {
		c.canvas.Text(line, c.x, c.y)
		c.y += c.LineHeight()
	}
}

// TextAt moves to (x, y) and draws s
func (c *Cursor) TextAt(s string, x, y float64) {
	c.MoveTo(x, y)
	c.Text(s)
}

// Right draws a single line so its right edge touches anchor
func (c *Cursor) Right(s string, anchor float64) {
	c.aligned(s, anchor, AlignRight)
}

// Center draws a single line centered on anchor
func (c *Cursor) Center(s string, anchor float64) {
	c.aligned(s, anchor, AlignCenter)
}

// aligned always occupies exactly one line, even when s is empty
func (c *Cursor) aligned(s string, anchor float64, align Align) {
	s = flatten(s)
	c.x = align.X(anchor, c.Measure(s))
	if s != "" {
		c.canvas.Text(s, c.x, c.y)
	}
	c.y += c.LineHeight()
}

// Row draws cells on one shared baseline and then advances to the next row.
// After every cell but the last the cursor moves up one line, undoing the
// advance of that draw. When the last cell is drawn the cursor returns to the
// row's starting x, advance points below where the last draw left it.
// Row returns the y of the shared line box top.
func (c *Cursor) Row(cells []Cell, advance float64) float64 {
	startX, top := c.x, c.y
	for i, cell := range cells {
		c.aligned(cell.Text, cell.Anchor, cell.Align)
		if i < len(cells)-1 {
			c.MoveUp(1)
		}
	}
	if len(cells) == 0 {
		c.MoveDown(1)
	}
	c.MoveTo(startX, c.y+advance)
	return top
}

// Rect fills a rectangle with the current fill color
func (c *Cursor) Rect(x, y, w, h float64) {
	c.canvas.FillRect(x, y, w, h)
}

// Line strokes a straight line
func (c *Cursor) Line(x1, y1, x2, y2 float64) {
	c.canvas.StrokeLine(x1, y1, x2, y2)
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func splitLines(s string) []string {
	return strings.Split(lineBreaks.Replace(s), "\n")
}

// flatten joins the lines of s so a cell always occupies one line
func flatten(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(splitLines(s), " ")
}
