// Package printing provides the drawing backend used by the invoice layout
// engine.
//
// This package contains:
// - PDFCanvas, a single-page drawing surface on top of gofpdf core fonts
// - WinAnsi text encoding for the core font set
// - RenderError and error codes shared by the layout engine
//
// Example usage:
//
//	canvas, err := NewPDFCanvas(&PDFCanvasConfig{
//	    Page:  printing.NewPage(printing.PaperSizeA4, printing.OrientationPortrait),
//	    Title: "Invoice #42",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	canvas.SetFontSize(10)
//	canvas.Text("Acme", 30, 30)
//	data, err := canvas.Finish()
package printing
