package invoice

import (
	"strings"
	"time"

	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineItem is one billable entry on an invoice
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// NewLineItem creates a LineItem
func NewLineItem(description string, quantity, rate decimal.Decimal) LineItem {
	return LineItem{
		Description: description,
		Quantity:    quantity,
		Rate:        rate,
	}
}

// Amount returns quantity * rate. It is derived, never stored.
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.Rate)
}

// Invoice is the validated record consumed by the layout engine.
// Line item order is print order. Optional text fields are empty when absent,
// optional dates are nil.
type Invoice struct {
	Number       int64      `json:"invoice_number"`
	From         string     `json:"from"`
	BillTo       string     `json:"bill_to,omitempty"`
	ShipTo       string     `json:"ship_to,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	PONumber     string     `json:"po_number,omitempty"`
	PaymentTerms string     `json:"payment_terms,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Terms        string     `json:"terms,omitempty"`
	Currency     Currency   `json:"currency"`
	LineItems    []LineItem `json:"line_items"`
}

// NewInvoice creates an Invoice with its required fields.
// Optional fields are set directly on the returned value.
func NewInvoice(number int64, from string, currency Currency, items ...LineItem) (*Invoice, error) {
	if strings.TrimSpace(from) == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInvoice, "Invoice sender cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidCurrency, "Unsupported currency: "+string(currency))
	}
	lineItems := make([]LineItem, len(items))
	copy(lineItems, items)
	return &Invoice{
		Number:    number,
		From:      from,
		Currency:  currency,
		LineItems: lineItems,
	}, nil
}

// Subtotal returns the exact sum of quantity * rate over all line items
func (inv *Invoice) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range inv.LineItems {
		total = total.Add(item.Amount())
	}
	return total
}

// HasDetails reports whether any field of the details block is present
func (inv *Invoice) HasDetails() bool {
	return inv.PONumber != "" || inv.PaymentTerms != "" || inv.DueDate != nil
}

// FormatAmount formats an amount in the invoice's currency
func (inv *Invoice) FormatAmount(amount decimal.Decimal) string {
	return inv.Currency.Format(amount)
}
