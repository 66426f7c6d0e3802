package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/invoicegen/backend/internal/infrastructure/config"
	"github.com/invoicegen/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

// setupTestMeter creates an enabled MeterProvider backed by a manual reader
func setupTestMeter(t *testing.T) (*telemetry.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	original := otel.GetMeterProvider()
	reader := sdkmetric.NewManualReader()

	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:     true,
		ServiceName: "test-service",
	}, zaptest.NewLogger(t), telemetry.WithReader(reader))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
		otel.SetMeterProvider(original)
	})
	return mp, reader
}

// collect gathers all metrics from the reader keyed by instrument name
func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	cfg := telemetry.MetricsConfig{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		ExportInterval:    60 * time.Second,
		ServiceName:       "test-service",
	}

	mp, err := telemetry.NewMeterProvider(ctx, cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, mp)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test-meter"))
	assert.NoError(t, mp.ForceFlush(ctx))

	cancelledCtx, cancel := context.WithCancel(ctx)
	cancel()
	assert.NoError(t, mp.Shutdown(cancelledCtx))
}

func TestNewMeterProvider_WithReader(t *testing.T) {
	mp, reader := setupTestMeter(t)
	assert.True(t, mp.IsEnabled())

	counter, err := telemetry.NewCounter(mp.Meter("test"), "requests_total", "Requests", "{request}")
	require.NoError(t, err)
	counter.Inc(context.Background())

	metrics := collect(t, reader)
	require.Contains(t, metrics, "requests_total")
}

func TestMetricsConfigFromApp(t *testing.T) {
	app := config.TelemetryConfig{
		Enabled:           true,
		MetricsEnabled:    false,
		CollectorEndpoint: "otel:4317",
		MetricsInterval:   15 * time.Second,
		ServiceName:       "invoice-backend",
	}
	cfg := telemetry.MetricsConfigFromApp(app)
	assert.False(t, cfg.Enabled, "metrics need both switches")
	assert.Equal(t, 15*time.Second, cfg.ExportInterval)

	app.MetricsEnabled = true
	assert.True(t, telemetry.MetricsConfigFromApp(app).Enabled)
}

func TestCounter(t *testing.T) {
	mp, reader := setupTestMeter(t)
	ctx := context.Background()

	counter, err := telemetry.NewCounter(mp.Meter("test"), "test_counter", "Test counter", "1")
	require.NoError(t, err)

	counter.Add(ctx, 5, attribute.String("method", "GET"))
	counter.Add(ctx, 10, attribute.String("method", "GET"))
	counter.Inc(ctx, attribute.String("method", "POST"))

	sum, ok := collect(t, reader)["test_counter"].Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byMethod := map[string]int64{}
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value("method")
		byMethod[v.AsString()] = dp.Value
	}
	assert.Equal(t, int64(15), byMethod["GET"])
	assert.Equal(t, int64(1), byMethod["POST"])
}

func TestHistogram(t *testing.T) {
	mp, reader := setupTestMeter(t)
	ctx := context.Background()

	histogram, err := telemetry.NewHistogram(mp.Meter("test"), telemetry.HistogramOpts{
		Name:        "render_seconds",
		Description: "Render duration",
		Unit:        "s",
		Boundaries:  telemetry.RenderDurationBuckets,
	})
	require.NoError(t, err)

	histogram.Record(ctx, 0.004)
	histogram.RecordDuration(ctx, 20*time.Millisecond)

	hist, ok := collect(t, reader)["render_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.Equal(t, telemetry.RenderDurationBuckets, hist.DataPoints[0].Bounds)
	assert.InDelta(t, 0.024, hist.DataPoints[0].Sum, 1e-9)
}

func TestHistogram_NoBoundaries(t *testing.T) {
	mp, _ := setupTestMeter(t)

	histogram, err := telemetry.NewHistogram(mp.Meter("test"), telemetry.HistogramOpts{
		Name: "default_histogram",
		Unit: "s",
	})
	require.NoError(t, err)
	histogram.Record(context.Background(), 1.5)
}

func TestGauge_Track(t *testing.T) {
	mp, reader := setupTestMeter(t)
	ctx := context.Background()

	gauge, err := telemetry.NewGauge(mp.Meter("test"), "renders_in_flight", "Renders in flight", "{render}")
	require.NoError(t, err)

	first := gauge.Track(ctx)
	second := gauge.Track(ctx)
	first()

	sum, ok := collect(t, reader)["renders_in_flight"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.False(t, sum.IsMonotonic)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)

	second()
	sum = collect(t, reader)["renders_in_flight"].Data.(metricdata.Sum[int64])
	assert.Equal(t, int64(0), sum.DataPoints[0].Value)
}

func TestInstruments(t *testing.T) {
	t.Run("builds every instrument", func(t *testing.T) {
		mp, reader := setupTestMeter(t)
		in := telemetry.NewInstruments(mp.Meter("test"))

		counter := in.Counter("built_total", "Built", "1")
		histogram := in.Histogram(telemetry.HistogramOpts{Name: "built_seconds", Unit: "s"})
		gauge := in.Gauge("built_active", "Active", "1")
		require.NoError(t, in.Err())

		counter.Inc(context.Background())
		histogram.Record(context.Background(), 0.5)
		gauge.Track(context.Background())

		metrics := collect(t, reader)
		assert.Contains(t, metrics, "built_total")
		assert.Contains(t, metrics, "built_seconds")
		assert.Contains(t, metrics, "built_active")
	})

	t.Run("nil meter", func(t *testing.T) {
		in := telemetry.NewInstruments(nil)
		assert.Nil(t, in.Counter("never_total", "", "1"))
		assert.ErrorIs(t, in.Err(), telemetry.ErrMeterNil)
	})

	t.Run("keeps the first error", func(t *testing.T) {
		mp, _ := setupTestMeter(t)
		in := telemetry.NewInstruments(mp.Meter("test"))

		in.Counter("1 not a valid name", "", "1")
		firstErr := in.Err()
		require.Error(t, firstErr)

		assert.Nil(t, in.Histogram(telemetry.HistogramOpts{Name: "later_seconds"}))
		assert.Nil(t, in.Gauge("later_active", "", "1"))
		assert.Equal(t, firstErr, in.Err())
	})
}
