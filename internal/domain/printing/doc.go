// Package printing contains page geometry value objects shared by the layout
// engine and the drawing backends. All lengths are in PDF points (1/72 inch).
package printing
