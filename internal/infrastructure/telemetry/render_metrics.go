package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics component is built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// Render outcomes recorded on the documents counter
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

// RenderMetrics records invoice document generation.
type RenderMetrics struct {
	documents *Counter
	duration  *Histogram
	size      *Histogram
	lineItems *Histogram
}

// RenderObservation describes one finished render attempt
type RenderObservation struct {
	Currency  string
	Outcome   string
	ErrorCode string
	Duration  time.Duration
	Bytes     int
	LineItems int
}

// NewRenderMetrics creates the render instruments on the given meter
func NewRenderMetrics(meter metric.Meter) (*RenderMetrics, error) {
	in := NewInstruments(meter)
	documents := in.Counter("invoice_documents_total", "Invoice documents rendered, by outcome", "{document}")
	duration := in.Histogram(HistogramOpts{
		Name:        "invoice_render_duration_seconds",
		Description: "Time spent laying out and encoding one invoice",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	})
	size := in.Histogram(HistogramOpts{
		Name:        "invoice_document_size_bytes",
		Description: "Size of rendered invoice documents",
		Unit:        "By",
		Boundaries:  DocumentSizeBuckets,
	})
	lineItems := in.Histogram(HistogramOpts{
		Name:        "invoice_line_items",
		Description: "Line items per rendered invoice",
		Unit:        "{item}",
		Boundaries:  LineItemBuckets,
	})
	if err := in.Err(); err != nil {
		return nil, err
	}

	return &RenderMetrics{
		documents: documents,
		duration:  duration,
		size:      size,
		lineItems: lineItems,
	}, nil
}

// RecordRender records one render attempt. Size and line items are only
// recorded for successful renders. A nil receiver is a no-op.
func (m *RenderMetrics) RecordRender(ctx context.Context, obs RenderObservation) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		AttrCurrency.String(obs.Currency),
		AttrOutcome.String(obs.Outcome),
	}
	if obs.ErrorCode != "" {
		attrs = append(attrs, AttrErrorCode.String(obs.ErrorCode))
	}

	m.documents.Inc(ctx, attrs...)
	m.duration.RecordDuration(ctx, obs.Duration, attrs...)

	if obs.Outcome == OutcomeSuccess {
		currency := AttrCurrency.String(obs.Currency)
		m.size.Record(ctx, float64(obs.Bytes), currency)
		m.lineItems.Record(ctx, float64(obs.LineItems), currency)
	}
}
