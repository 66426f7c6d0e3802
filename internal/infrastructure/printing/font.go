package printing

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// DefaultFontFamily is the core font used when none is configured
const DefaultFontFamily = "Helvetica"

// FontMetrics holds the vertical metrics of a core font in 1/1000 em
type FontMetrics struct {
	Ascender  float64
	Descender float64
	LineGap   float64
}

// LineHeight returns the distance between consecutive baselines at size
func (m FontMetrics) LineHeight(size float64) float64 {
	return (m.Ascender - m.Descender + m.LineGap) / 1000 * size
}

// Ascent returns the distance from the top of the line box to the baseline
func (m FontMetrics) Ascent(size float64) float64 {
	return m.Ascender / 1000 * size
}

// Values from the Adobe core font AFM files. LineGap is the bounding box
// height minus ascender and descender.
var coreFontMetrics = map[string]FontMetrics{
	"helvetica": {Ascender: 718, Descender: -207, LineGap: 231},
	"times":     {Ascender: 683, Descender: -217, LineGap: 216},
	"courier":   {Ascender: 629, Descender: -157, LineGap: 269},
}

// CoreFontMetrics returns metrics for a core font family
func CoreFontMetrics(family string) (FontMetrics, bool) {
	m, ok := coreFontMetrics[strings.ToLower(family)]
	return m, ok
}

// IsCoreFont reports whether family is one of the supported core fonts
func IsCoreFont(family string) bool {
	_, ok := CoreFontMetrics(family)
	return ok
}

// textEncoder converts UTF-8 text to the WinAnsi code page used by the core
// fonts. Characters outside the code page become '?'.
type textEncoder struct {
	charmap *charmap.Charmap
}

func newTextEncoder() *textEncoder {
	return &textEncoder{charmap: charmap.Windows1252}
}

func (e *textEncoder) encode(s string) string {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		c, ok := e.charmap.EncodeRune(r)
		if !ok {
			c = '?'
		}
		b = append(b, c)
	}
	return string(b)
}
