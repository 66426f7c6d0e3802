package layout

import (
	"context"
	"unicode/utf8"

	"github.com/invoicegen/backend/internal/domain/printing"
)

type opKind string

const (
	opText opKind = "text"
	opRect opKind = "rect"
	opLine opKind = "line"
)

type drawOp struct {
	kind     opKind
	text     string
	x, y     float64
	w, h     float64
	x2, y2   float64
	fontSize float64
	fill     printing.Color
}

// recordingCanvas captures every draw call. Each character is measured as
// half the font size wide.
type recordingCanvas struct {
	ops       []drawOp
	fontSize  float64
	fill      printing.Color
	stroke    printing.Color
	finishErr error
	finished  int
}

func newRecordingCanvas() *recordingCanvas {
	return &recordingCanvas{fontSize: 12}
}

func (r *recordingCanvas) Measure(text string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(text)) * fontSize * 0.5
}

func (r *recordingCanvas) LineHeight(fontSize float64) float64 {
	return fontSize * 1.156
}

func (r *recordingCanvas) SetFontSize(size float64)            { r.fontSize = size }
func (r *recordingCanvas) SetFillColor(color printing.Color)   { r.fill = color }
func (r *recordingCanvas) SetStrokeColor(color printing.Color) { r.stroke = color }

func (r *recordingCanvas) Text(text string, x, y float64) {
	if text == "" {
		return
	}
	r.ops = append(r.ops, drawOp{kind: opText, text: text, x: x, y: y, fontSize: r.fontSize, fill: r.fill})
}

func (r *recordingCanvas) FillRect(x, y, w, h float64) {
	r.ops = append(r.ops, drawOp{kind: opRect, x: x, y: y, w: w, h: h, fill: r.fill})
}

func (r *recordingCanvas) StrokeLine(x1, y1, x2, y2 float64) {
	r.ops = append(r.ops, drawOp{kind: opLine, x: x1, y: y1, x2: x2, y2: y2})
}

func (r *recordingCanvas) Finish() ([]byte, error) {
	r.finished++
	if r.finishErr != nil {
		return nil, r.finishErr
	}
	return []byte("%PDF-recorded"), nil
}

func (r *recordingCanvas) texts() []drawOp {
	var out []drawOp
	for _, op := range r.ops {
		if op.kind == opText {
			out = append(out, op)
		}
	}
	return out
}

func (r *recordingCanvas) find(kind opKind) []drawOp {
	var out []drawOp
	for _, op := range r.ops {
		if op.kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (r *recordingCanvas) text(s string) (drawOp, bool) {
	for _, op := range r.texts() {
		if op.text == s {
			return op, true
		}
	}
	return drawOp{}, false
}

func (r *recordingCanvas) count(s string) int {
	n := 0
	for _, op := range r.texts() {
		if op.text == s {
			n++
		}
	}
	return n
}

// recordingFactory hands out one recorder per render and keeps them all
func recordingFactory(canvases *[]*recordingCanvas) CanvasFactory {
	return func(_ context.Context, _ DocumentInfo) (Canvas, error) {
		c := newRecordingCanvas()
		*canvases = append(*canvases, c)
		return c, nil
	}
}
