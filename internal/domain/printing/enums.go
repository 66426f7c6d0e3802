package printing

// PaperSize represents the paper size of a generated document
type PaperSize string

const (
	PaperSizeA4     PaperSize = "A4"     // 210mm x 297mm
	PaperSizeA5     PaperSize = "A5"     // 148mm x 210mm
	PaperSizeLetter PaperSize = "LETTER" // 8.5in x 11in
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeA5, PaperSizeLetter:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the portrait paper dimensions in points (width, height)
func (p PaperSize) Dimensions() (width, height float64) {
	switch p {
	case PaperSizeA4:
		return 595.28, 841.89
	case PaperSizeA5:
		return 419.53, 595.28
	case PaperSizeLetter:
		return 612, 792
	default:
		return 595.28, 841.89 // Default to A4
	}
}

// AllPaperSizes returns all valid PaperSize values
func AllPaperSizes() []PaperSize {
	return []PaperSize{PaperSizeA4, PaperSizeA5, PaperSizeLetter}
}

// Orientation represents the page orientation
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	switch o {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// String returns the string representation of Orientation
func (o Orientation) String() string {
	return string(o)
}

// Page is a concrete page rectangle
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewPage returns the page rectangle for a paper size and orientation
func NewPage(size PaperSize, orientation Orientation) Page {
	w, h := size.Dimensions()
	if orientation == OrientationLandscape {
		w, h = h, w
	}
	return Page{Width: w, Height: h}
}
