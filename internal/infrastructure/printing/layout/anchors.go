package layout

// Align is the horizontal alignment of a cell against its anchor
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// String returns the alignment name
func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return "unknown"
}

// X returns the left edge of text of the given width aligned on anchor
func (a Align) X(anchor, width float64) float64 {
	switch a {
	case AlignCenter:
		return anchor - width/2
	case AlignRight:
		return anchor - width
	}
	return anchor
}

// MeasureFunc returns the width of text at a fixed font size
type MeasureFunc func(text string) float64

// Anchors holds the fixed horizontal positions of the numeric columns.
// The rightmost column is right-aligned on its anchor, the others are
// centered on theirs.
type Anchors struct {
	QuantityX float64
	RateX     float64
	AmountX   float64

	order []Column
}

// X returns the anchor of a column
func (a Anchors) X(c Column) float64 {
	switch c {
	case ColumnQuantity:
		return a.QuantityX
	case ColumnRate:
		return a.RateX
	case ColumnAmount:
		return a.AmountX
	}
	return 0
}

// Align returns the alignment of a column
func (a Anchors) Align(c Column) Align {
	if n := len(a.order); n > 0 && a.order[n-1] == c {
		return AlignRight
	}
	return AlignCenter
}

// Order returns the left-to-right column order the anchors were computed for
func (a Anchors) Order() []Column {
	return append([]Column(nil), a.order...)
}

// ComputeAnchors computes the anchors for the standard
// QUANTITY, RATE, AMOUNT column order.
//
//	amountX   = pageWidth - marginRight - textPadding
//	rateX     = amountX - w(amount) - cellPadding - w(rate)/2
//	quantityX = rateX - w(rate)/2 - cellPadding - w(quantity)/2
func ComputeAnchors(pageWidth, marginRight, cellPadding, textPadding float64, labels Labels, measure MeasureFunc) Anchors {
	return ComputeColumnAnchors(DefaultColumnOrder, pageWidth, marginRight, cellPadding, textPadding, labels, measure)
}

// ComputeColumnAnchors lays columns out right to left. Only the rightmost
// column's distance from the page edge is known up front; every other anchor
// is derived from the left edge of the label to its right.
// measure must use the font size the header and rows are drawn with.
func ComputeColumnAnchors(order []Column, pageWidth, marginRight, cellPadding, textPadding float64, labels Labels, measure MeasureFunc) Anchors {
	a := Anchors{order: append([]Column(nil), order...)}

	var leftEdge float64
	for i := len(order) - 1; i >= 0; i-- {
		c := order[i]
		w := measure(labels.Column(c))

		var x float64
		if i == len(order)-1 {
			x = pageWidth - marginRight - textPadding
			leftEdge = x - w
		} else {
			x = leftEdge - cellPadding - w/2
			leftEdge = x - w/2
		}

		switch c {
		case ColumnQuantity:
			a.QuantityX = x
		case ColumnRate:
			a.RateX = x
		case ColumnAmount:
			a.AmountX = x
		}
	}
	return a
}
