package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Counter is a monotonic int64 counter
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a Counter on meter
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return &Counter{counter: c}, nil
}

// Add increments the counter by value
func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// Inc increments the counter by one
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, attrs...)
}

// Gauge is an int64 up-down counter for in-flight work
type Gauge struct {
	counter metric.Int64UpDownCounter
}

// NewGauge creates a Gauge on meter
func NewGauge(meter metric.Meter, name, description, unit string) (*Gauge, error) {
	c, err := meter.Int64UpDownCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge %s: %w", name, err)
	}
	return &Gauge{counter: c}, nil
}

// Track adds one and returns a func that removes it again
func (g *Gauge) Track(ctx context.Context, attrs ...attribute.KeyValue) func() {
	opt := metric.WithAttributes(attrs...)
	g.counter.Add(ctx, 1, opt)
	return func() {
		g.counter.Add(ctx, -1, opt)
	}
}

// Histogram is a float64 histogram
type Histogram struct {
	histogram metric.Float64Histogram
}

// HistogramOpts describes a histogram. Empty Boundaries keep the SDK defaults.
type HistogramOpts struct {
	Name        string
	Description string
	Unit        string
	Boundaries  []float64
}

// NewHistogram creates a Histogram on meter
func NewHistogram(meter metric.Meter, opts HistogramOpts) (*Histogram, error) {
	hopts := []metric.Float64HistogramOption{
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	}
	if len(opts.Boundaries) > 0 {
		hopts = append(hopts, metric.WithExplicitBucketBoundaries(opts.Boundaries...))
	}
	h, err := meter.Float64Histogram(opts.Name, hopts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", opts.Name, err)
	}
	return &Histogram{histogram: h}, nil
}

// Record records value
func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

// RecordDuration records d in seconds
func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.Record(ctx, d.Seconds(), attrs...)
}

// Instruments creates instruments on one meter and keeps the first error,
// so a set of instruments is built with a single check at the end:
//
//	in := telemetry.NewInstruments(meter)
//	total := in.Counter("invoice_documents_total", "...", "{document}")
//	if err := in.Err(); err != nil { ... }
//
// After an error every later call returns nil.
type Instruments struct {
	meter metric.Meter
	err   error
}

// NewInstruments returns an Instruments for meter. A nil meter fails with ErrMeterNil.
func NewInstruments(meter metric.Meter) *Instruments {
	in := &Instruments{meter: meter}
	if meter == nil {
		in.err = ErrMeterNil
	}
	return in
}

// Counter creates a Counter
func (in *Instruments) Counter(name, description, unit string) *Counter {
	if in.err != nil {
		return nil
	}
	c, err := NewCounter(in.meter, name, description, unit)
	in.err = err
	return c
}

// Gauge creates a Gauge
func (in *Instruments) Gauge(name, description, unit string) *Gauge {
	if in.err != nil {
		return nil
	}
	g, err := NewGauge(in.meter, name, description, unit)
	in.err = err
	return g
}

// Histogram creates a Histogram
func (in *Instruments) Histogram(opts HistogramOpts) *Histogram {
	if in.err != nil {
		return nil
	}
	h, err := NewHistogram(in.meter, opts)
	in.err = err
	return h
}

// Err returns the first error met
func (in *Instruments) Err() error {
	return in.err
}

// Metric attribute keys
var (
	AttrCurrency  = attribute.Key("currency")
	AttrOutcome   = attribute.Key("outcome")
	AttrErrorCode = attribute.Key("error_code")

	AttrHTTPMethod      = attribute.Key("http_method")
	AttrHTTPRoute       = attribute.Key("http_route")
	AttrHTTPStatusCode  = attribute.Key("http_status_code")
	AttrHTTPStatusClass = attribute.Key("http_status_class")
)

// Histogram bucket boundaries
var (
	// HTTPDurationBuckets are in seconds
	HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

	// RenderDurationBuckets are in seconds. A single page render is usually
	// well under 10ms.
	RenderDurationBuckets = []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

	// DocumentSizeBuckets are in bytes
	DocumentSizeBuckets = []float64{1 << 10, 2 << 10, 4 << 10, 8 << 10, 16 << 10, 32 << 10, 64 << 10, 128 << 10}

	// LineItemBuckets count line items per invoice
	LineItemBuckets = []float64{0, 1, 2, 5, 10, 20, 50, 100}

	// HTTPBodySizeBuckets are in bytes
	HTTPBodySizeBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000}
)
