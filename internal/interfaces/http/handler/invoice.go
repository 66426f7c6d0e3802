package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	invoiceapp "github.com/invoicegen/backend/internal/application/invoice"
	"github.com/invoicegen/backend/internal/interfaces/http/dto"
)

// InvoiceService is the application service behind the invoice endpoints
type InvoiceService interface {
	Generate(ctx context.Context, req *invoiceapp.GenerateRequest) (*invoiceapp.DocumentResponse, error)
	Validate(ctx context.Context, req *invoiceapp.GenerateRequest) (*invoiceapp.ValidateResponse, error)
	Currencies() []invoiceapp.CurrencyResponse
	PaperSizes() []invoiceapp.PaperSizeResponse
}

// InvoiceHandler handles invoice document endpoints
type InvoiceHandler struct {
	BaseHandler
	service InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(service InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// RegisterRoutes mounts the invoice endpoints on rg
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	invoices.POST("/pdf", h.GeneratePDF)
	invoices.POST("/validate", h.Validate)
	invoices.GET("/currencies", h.ListCurrencies)
	invoices.GET("/paper-sizes", h.ListPaperSizes)
}

// GeneratePDF godoc
//
//	@ID				generateInvoicePDF
//	@Summary		Render an invoice
//	@Description	Validates the invoice and returns it as a single-page PDF download
//	@Tags			invoices
//	@Accept			json
//	@Produce		application/pdf
//	@Param			request	body		invoiceapp.GenerateRequest	true	"Invoice"
//	@Success		200		{file}		binary
//	@Failure		400		{object}	dto.Response
//	@Failure		413		{object}	dto.Response
//	@Failure		422		{object}	dto.Response
//	@Failure		500		{object}	dto.Response
//	@Router			/invoices/pdf [post]
func (h *InvoiceHandler) GeneratePDF(c *gin.Context) {
	var req invoiceapp.GenerateRequest
	if !h.bind(c, &req) {
		return
	}

	doc, err := h.service.Generate(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

// Validate godoc
//
//	@ID				validateInvoice
//	@Summary		Validate an invoice
//	@Description	Checks an invoice without rendering it and reports every rejected field
//	@Tags			invoices
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invoiceapp.GenerateRequest	true	"Invoice"
//	@Success		200		{object}	dto.Response{data=invoiceapp.ValidateResponse}
//	@Failure		400		{object}	dto.Response
//	@Router			/invoices/validate [post]
func (h *InvoiceHandler) Validate(c *gin.Context) {
	var req invoiceapp.GenerateRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.service.Validate(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListCurrencies godoc
//
//	@ID				listInvoiceCurrencies
//	@Summary		List supported currencies
//	@Tags			invoices
//	@Produce		json
//	@Success		200	{object}	dto.Response{data=[]invoiceapp.CurrencyResponse}
//	@Router			/invoices/currencies [get]
func (h *InvoiceHandler) ListCurrencies(c *gin.Context) {
	h.Success(c, h.service.Currencies())
}

// ListPaperSizes godoc
//
//	@ID				listInvoicePaperSizes
//	@Summary		List supported paper sizes
//	@Tags			invoices
//	@Produce		json
//	@Success		200	{object}	dto.Response{data=[]invoiceapp.PaperSizeResponse}
//	@Router			/invoices/paper-sizes [get]
func (h *InvoiceHandler) ListPaperSizes(c *gin.Context) {
	h.Success(c, h.service.PaperSizes())
}

// bind decodes the JSON body into req and answers the client when it cannot
func (h *InvoiceHandler) bind(c *gin.Context, req *invoiceapp.GenerateRequest) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	_ = c.Error(err)

	var maxBytesErr *http.MaxBytesError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &maxBytesErr):
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge,
			fmt.Sprintf("Request body exceeds %d bytes", maxBytesErr.Limit))
	case errors.Is(err, io.EOF):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body is required")
	case errors.As(err, &syntaxErr):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON,
			fmt.Sprintf("Malformed JSON at offset %d", syntaxErr.Offset))
	case errors.As(err, &typeErr):
		h.ValidationError(c, []dto.ValidationDetail{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Must be a %s", jsonKind(typeErr.Type.Kind().String())),
		}})
	default:
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body is not a valid invoice")
	}
	return false
}

func jsonKind(goKind string) string {
	switch goKind {
	case "string":
		return "string"
	case "bool":
		return "boolean"
	case "slice", "array":
		return "list"
	case "struct", "map":
		return "object"
	default:
		return "number"
	}
}
