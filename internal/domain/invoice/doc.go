// Package invoice contains the Invoice bounded context.
// An Invoice is a validated, immutable record handed to the layout engine;
// nothing in this package draws or measures anything.
package invoice
