package invoice_test

import (
	"strings"
	"testing"

	invoiceapp "github.com/invoicegen/backend/internal/application/invoice"
	"github.com/invoicegen/backend/internal/domain/invoice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *invoiceapp.GenerateRequest {
	return &invoiceapp.GenerateRequest{
		InvoiceNumber: 42,
		From:          "Acme",
		Currency:      "USD",
		LineItems: []invoiceapp.LineItemRequest{
			{Description: "Widget", Quantity: decimal.NewFromInt(2), Rate: decimal.RequireFromString("9.5")},
		},
	}
}

func TestValidator_Valid(t *testing.T) {
	v := invoiceapp.NewValidator()
	assert.NoError(t, v.Validate(validRequest()))

	req := validRequest()
	req.LineItems = nil
	req.Date = "2026-11-01"
	req.DueDate = "2026-12-01T00:00:00Z"
	assert.NoError(t, v.Validate(req), "empty line items and both date forms are accepted")
}

func TestValidator_AcceptsDomainCurrencies(t *testing.T) {
	v := invoiceapp.NewValidator()
	for _, c := range invoice.AllCurrencies() {
		req := validRequest()
		req.Currency = c.String()
		assert.NoError(t, v.Validate(req), c.String())
	}
}

func TestValidator_FieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *invoiceapp.GenerateRequest)
		field   string
		message string
	}{
		{
			name:    "missing sender",
			mutate:  func(r *invoiceapp.GenerateRequest) { r.From = "" },
			field:   "from",
			message: "This field is required",
		},
		{
			name:    "blank sender",
			mutate:  func(r *invoiceapp.GenerateRequest) { r.From = "   " },
			field:   "from",
			message: "This field is required",
		},
		{
			name:    "unsupported currency",
			mutate:  func(r *invoiceapp.GenerateRequest) { r.Currency = "GBP" },
			field:   "currency",
			message: "Must be one of: USD EUR RSD",
		},
		{
			name:    "lowercase currency",
			mutate:  func(r *invoiceapp.GenerateRequest) { r.Currency = "usd" },
			field:   "currency",
			message: "Must be one of: USD EUR RSD",
		},
		{
			name:    "negative invoice number",
			mutate:  func(r *invoiceapp.GenerateRequest) { r.InvoiceNumber = -1 },
			field:   "invoice_number",
			message: "Must be greater than or equal to 0",
		},
		{
			name: "negative quantity",
			mutate: func(r *invoiceapp.GenerateRequest) {
				r.LineItems = append(r.LineItems, invoiceapp.LineItemRequest{
					Description: "Refund",
					Quantity:    decimal.NewFromInt(-1),
					Rate:        decimal.NewFromInt(1),
				})
			},
			field:   "line_items[1].quantity",
			message: "Must be greater than or equal to 0",
		},
		{
			name:    "negative rate",
			mutate:  func(r *invoiceapp.GenerateRequest) { r.LineItems[0].Rate = decimal.RequireFromString("-0.01") },
			field:   "line_items[0].rate",
			message: "Must be greater than or equal to 0",
		},
		{
			name:    "bad date",
			mutate:  func(r *invoiceapp.GenerateRequest) { r.Date = "11/01/2026" },
			field:   "date",
			message: "Must be a date in YYYY-MM-DD or RFC 3339 format",
		},
		{
			name:    "long po number",
			mutate:  func(r *invoiceapp.GenerateRequest) { r.PONumber = strings.Repeat("x", 101) },
			field:   "po_number",
			message: "Must be at most 100 characters",
		},
	}

	v := invoiceapp.NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.Validate(req)
			require.Error(t, err)

			var validationErr *invoiceapp.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.message, validationErr.Fields[tt.field], "fields: %v", validationErr.Fields)
		})
	}
}

func TestValidator_MultipleErrors(t *testing.T) {
	req := validRequest()
	req.From = ""
	req.Currency = ""

	err := invoiceapp.NewValidator().Validate(req)
	var validationErr *invoiceapp.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"currency", "from"}, validationErr.FieldNames())
	assert.Contains(t, err.Error(), "currency, from")
}

func TestValidator_NilRequest(t *testing.T) {
	err := invoiceapp.NewValidator().Validate(nil)
	var validationErr *invoiceapp.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "body")
}
