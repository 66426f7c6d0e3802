package printing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/invoicegen/backend/internal/domain/shared"
)

// Margins represents the page margins in points
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// NewMargins creates a new Margins value object
func NewMargins(top, right, bottom, left float64) (Margins, error) {
	if top < 0 || right < 0 || bottom < 0 || left < 0 {
		return Margins{}, shared.NewDomainError(shared.CodeInvalidMargins, "Margins cannot be negative")
	}
	if top > 200 || right > 200 || bottom > 200 || left > 200 {
		return Margins{}, shared.NewDomainError(shared.CodeInvalidMargins, "Margins cannot exceed 200pt")
	}
	return Margins{
		Top:    top,
		Right:  right,
		Bottom: bottom,
		Left:   left,
	}, nil
}

// UniformMargins returns the same margin on every side
func UniformMargins(m float64) Margins {
	return Margins{Top: m, Right: m, Bottom: m, Left: m}
}

// DefaultMargins returns the default invoice margins (30pt on every side)
func DefaultMargins() Margins {
	return UniformMargins(30)
}

// IsZero returns true if all margins are zero
func (m Margins) IsZero() bool {
	return m.Top == 0 && m.Right == 0 && m.Bottom == 0 && m.Left == 0
}

// Color is an RGB fill color
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// ParseHexColor parses "#rrggbb" or "rrggbb"
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, shared.NewDomainError(shared.CodeInvalidColor, "Color must be in #rrggbb format: "+s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, shared.NewDomainError(shared.CodeInvalidColor, "Color must be in #rrggbb format: "+s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex returns the "#rrggbb" form
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
