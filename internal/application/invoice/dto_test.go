package invoice_test

import (
	"encoding/json"
	"testing"
	"time"

	invoiceapp "github.com/invoicegen/backend/internal/application/invoice"
	"github.com/invoicegen/backend/internal/domain/invoice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRequest_ToInvoice(t *testing.T) {
	body := `{
		"invoice_number": 7,
		"from": "Acme Ltd\nMain St 1",
		"bill_to": "Globex",
		"ship_to": "  ",
		"date": "2026-11-01",
		"due_date": "2026-12-01T15:04:05+02:00",
		"po_number": "PO-7",
		"currency": "EUR",
		"line_items": [
			{"description": "Design", "quantity": 1.5, "rate": "80"},
			{"description": "Hosting", "quantity": 12, "rate": 9.99}
		]
	}`

	var req invoiceapp.GenerateRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	inv, err := req.ToInvoice()
	require.NoError(t, err)

	assert.Equal(t, int64(7), inv.Number)
	assert.Equal(t, invoice.EUR, inv.Currency)
	assert.Equal(t, "Globex", inv.BillTo)
	assert.Empty(t, inv.ShipTo, "whitespace-only text is absent")
	assert.Equal(t, "PO-7", inv.PONumber)

	require.NotNil(t, inv.Date)
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), *inv.Date)
	require.NotNil(t, inv.DueDate)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), *inv.DueDate)

	require.Len(t, inv.LineItems, 2)
	assert.Equal(t, "Design", inv.LineItems[0].Description)
	assert.Equal(t, "119.88", inv.LineItems[1].Amount().String())
	assert.Equal(t, "239.88", inv.Subtotal().String())
}

func TestGenerateRequest_ToInvoice_NoDates(t *testing.T) {
	req := validRequest()
	inv, err := req.ToInvoice()
	require.NoError(t, err)
	assert.Nil(t, inv.Date)
	assert.Nil(t, inv.DueDate)
}

func TestGenerateRequest_ToInvoice_Errors(t *testing.T) {
	req := validRequest()
	req.Currency = "GBP"
	_, err := req.ToInvoice()
	assert.Error(t, err)

	req = validRequest()
	req.Date = "tomorrow"
	_, err = req.ToInvoice()
	assert.Error(t, err)
}
