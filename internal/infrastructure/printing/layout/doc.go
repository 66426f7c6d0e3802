// Package layout converts an invoice into absolutely positioned drawing
// instructions on a single page.
//
// The package has no table primitive to lean on. Columns are placed by
// anchors computed once per document from the header label widths, and a
// table row is emulated by drawing each cell as an independent text call
// while rewinding the cursor so every cell lands on the same baseline.
//
// Components:
// - Layout: margins, paddings, row height, font sizes, colors, labels, column order
// - ComputeAnchors: right-to-left column anchor calculation
// - Cursor: explicit position, font size and fill color for one render
// - Engine: assembles header, metadata blocks, table and subtotal
//
// Each call to Engine.Render owns its cursor, anchors and canvas, so one
// Engine may render documents from many goroutines.
package layout
