package invoice

import (
	"strings"
	"time"

	"github.com/invoicegen/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// Accepted date layouts for request dates, tried in order
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// LineItemRequest is one raw line item as submitted by a client
type LineItemRequest struct {
	Description string          `json:"description" validate:"max=500"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gte=0"`
	Rate        decimal.Decimal `json:"rate" validate:"gte=0"`
}

// GenerateRequest is a raw invoice record submitted for rendering.
// Dates are strings in YYYY-MM-DD or RFC 3339 form.
type GenerateRequest struct {
	InvoiceNumber int64             `json:"invoice_number" validate:"gte=0"`
	From          string            `json:"from" validate:"required,notblank,max=2000"`
	BillTo        string            `json:"bill_to" validate:"max=2000"`
	ShipTo        string            `json:"ship_to" validate:"max=2000"`
	Date          string            `json:"date" validate:"omitempty,invoicedate"`
	DueDate       string            `json:"due_date" validate:"omitempty,invoicedate"`
	PONumber      string            `json:"po_number" validate:"max=100"`
	PaymentTerms  string            `json:"payment_terms" validate:"max=200"`
	Notes         string            `json:"notes" validate:"max=2000"`
	Terms         string            `json:"terms" validate:"max=2000"`
	Currency      string            `json:"currency" validate:"required,currency"`
	LineItems     []LineItemRequest `json:"line_items" validate:"dive"`
}

// ToInvoice converts a validated request into the domain record
func (r *GenerateRequest) ToInvoice() (*invoice.Invoice, error) {
	currency, err := invoice.ParseCurrency(r.Currency)
	if err != nil {
		return nil, err
	}

	items := make([]invoice.LineItem, 0, len(r.LineItems))
	for _, item := range r.LineItems {
		items = append(items, invoice.NewLineItem(item.Description, item.Quantity, item.Rate))
	}

	inv, err := invoice.NewInvoice(r.InvoiceNumber, r.From, currency, items...)
	if err != nil {
		return nil, err
	}

	inv.BillTo = optional(r.BillTo)
	inv.ShipTo = optional(r.ShipTo)
	inv.PONumber = optional(r.PONumber)
	inv.PaymentTerms = optional(r.PaymentTerms)
	inv.Notes = optional(r.Notes)
	inv.Terms = optional(r.Terms)

	if inv.Date, err = parseDate(r.Date); err != nil {
		return nil, err
	}
	if inv.DueDate, err = parseDate(r.DueDate); err != nil {
		return nil, err
	}
	return inv, nil
}

// optional maps whitespace-only text to absent
func optional(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// parseDate parses an optional request date. Only the calendar date is kept.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// DocumentResponse is a rendered invoice
type DocumentResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
	Size        int    `json:"size"`
	LineItems   int    `json:"line_items"`
	Subtotal    string `json:"subtotal"`
}

// ValidateResponse reports the outcome of validating a request without rendering
type ValidateResponse struct {
	Valid    bool              `json:"valid"`
	Errors   map[string]string `json:"errors,omitempty"`
	Subtotal string            `json:"subtotal,omitempty"`
}

// CurrencyResponse describes a supported currency
type CurrencyResponse struct {
	Code    string `json:"code"`
	Symbol  string `json:"symbol"`
	Example string `json:"example"`
}

// PaperSizeResponse describes a supported paper size in points
type PaperSizeResponse struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
