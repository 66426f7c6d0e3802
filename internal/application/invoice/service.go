package invoice

import (
	"context"
	"errors"
	"time"

	"github.com/invoicegen/backend/internal/domain/invoice"
	"github.com/invoicegen/backend/internal/domain/printing"
	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/invoicegen/backend/internal/infrastructure/logger"
	infraprinting "github.com/invoicegen/backend/internal/infrastructure/printing"
	"github.com/invoicegen/backend/internal/infrastructure/printing/layout"
	"github.com/invoicegen/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ContentTypePDF is the media type of rendered documents
const ContentTypePDF = "application/pdf"

// Renderer lays out a validated invoice
type Renderer interface {
	Render(ctx context.Context, inv *invoice.Invoice) (*layout.Result, error)
}

// Service validates raw invoice requests and renders them
type Service struct {
	renderer  Renderer
	validator *Validator
	metrics   *telemetry.RenderMetrics
	logger    *zap.Logger
	timeout   time.Duration
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithMetrics records every render attempt on m
func WithMetrics(m *telemetry.RenderMetrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the fallback logger used when the context carries none
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRenderTimeout bounds how long a request waits before rendering starts.
// Zero disables the bound.
func WithRenderTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.timeout = d
	}
}

// NewService creates a new Service
func NewService(renderer Renderer, opts ...ServiceOption) *Service {
	s := &Service{
		renderer:  renderer,
		validator: NewValidator(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate validates req, renders it and returns the finished document.
// Validation failures are returned as *ValidationError, render failures as
// *infraprinting.RenderError.
func (s *Service) Generate(ctx context.Context, req *GenerateRequest) (*DocumentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "generate")
	defer span.End()

	log := s.log(ctx)
	start := time.Now()

	obs := telemetry.RenderObservation{Outcome: telemetry.OutcomeInvalid}
	defer func() {
		obs.Duration = time.Since(start)
		s.metrics.RecordRender(ctx, obs)
	}()

	inv, err := s.toInvoice(req)
	if err != nil {
		telemetry.RecordError(span, err)
		log.Debug("Invoice request rejected", zap.Error(err))
		return nil, err
	}

	obs.Currency = inv.Currency.String()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceNumber, inv.Number,
		telemetry.SpanAttrCurrency, inv.Currency.String(),
		telemetry.SpanAttrLineItems, len(inv.LineItems),
	)

	renderCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var result *layout.Result
	telemetry.WithProfilingLabels(renderCtx, map[string]string{
		telemetry.ProfilingLabelOperation: "render_invoice",
		telemetry.ProfilingLabelCurrency:  inv.Currency.String(),
	}, func(ctx context.Context) {
		result, err = s.renderer.Render(ctx, inv)
	})
	if err != nil {
		obs.Outcome = telemetry.OutcomeFailed
		obs.ErrorCode = renderErrorCode(err)
		telemetry.RecordError(span, err)
		log.Error("Failed to render invoice",
			zap.Int64("invoice_number", inv.Number),
			zap.String("error_code", obs.ErrorCode),
			zap.Error(err),
		)
		return nil, err
	}

	obs.Outcome = telemetry.OutcomeSuccess
	obs.Bytes = len(result.PDFData)
	obs.LineItems = result.Rows

	subtotal := inv.FormatAmount(result.Subtotal)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrSubtotal, result.Subtotal.String(),
		telemetry.SpanAttrDocumentBytes, len(result.PDFData),
	)
	telemetry.SetOK(span)

	log.Info("Invoice rendered",
		zap.Int64("invoice_number", inv.Number),
		zap.String("currency", inv.Currency.String()),
		zap.Int("line_items", result.Rows),
		zap.String("subtotal", subtotal),
		zap.Int("size_bytes", len(result.PDFData)),
	)

	filename := result.Filename
	if filename == "" {
		filename = layout.DefaultFilename
	}
	return &DocumentResponse{
		Filename:    filename,
		ContentType: ContentTypePDF,
		Data:        result.PDFData,
		Size:        len(result.PDFData),
		LineItems:   result.Rows,
		Subtotal:    subtotal,
	}, nil
}

// Validate checks req without rendering. Field problems are reported in the
// response; the returned error is reserved for failures of the check itself.
func (s *Service) Validate(ctx context.Context, req *GenerateRequest) (*ValidateResponse, error) {
	_, span := telemetry.StartServiceSpan(ctx, "invoice", "validate")
	defer span.End()

	inv, err := s.toInvoice(req)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return &ValidateResponse{Valid: false, Errors: validationErr.Fields}, nil
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	return &ValidateResponse{
		Valid:    true,
		Subtotal: inv.FormatAmount(inv.Subtotal()),
	}, nil
}

// Currencies lists the supported currencies with a formatting example
func (s *Service) Currencies() []CurrencyResponse {
	example := decimal.RequireFromString("1234.56")
	currencies := invoice.AllCurrencies()
	out := make([]CurrencyResponse, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, CurrencyResponse{
			Code:    c.String(),
			Symbol:  c.Symbol(),
			Example: c.Format(example),
		})
	}
	return out
}

// PaperSizes lists the supported paper sizes in portrait orientation
func (s *Service) PaperSizes() []PaperSizeResponse {
	sizes := printing.AllPaperSizes()
	out := make([]PaperSizeResponse, 0, len(sizes))
	for _, p := range sizes {
		w, h := p.Dimensions()
		out = append(out, PaperSizeResponse{Name: p.String(), Width: w, Height: h})
	}
	return out
}

// toInvoice validates and converts a request. Domain and date errors that
// slip past validation are reported as field errors as well.
func (s *Service) toInvoice(req *GenerateRequest) (*invoice.Invoice, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	inv, err := req.ToInvoice()
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, &ValidationError{Fields: map[string]string{domainField(domainErr.Code): domainErr.Message}}
		}
		return nil, &ValidationError{Fields: map[string]string{"date": err.Error()}}
	}
	return inv, nil
}

func domainField(code string) string {
	switch code {
	case shared.CodeInvalidCurrency:
		return "currency"
	default:
		return "from"
	}
}

// log prefers the request-scoped logger stored in ctx
func (s *Service) log(ctx context.Context) *logger.ContextLogger {
	return logger.Ctx(ctx, s.logger)
}

func renderErrorCode(err error) string {
	if code := infraprinting.ErrorCode(err); code != "" {
		return code
	}
	return infraprinting.ErrCodeRenderFailed
}
