package telemetry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/invoicegen/backend/internal/infrastructure/config"
	"github.com/invoicegen/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// memoryExporter keeps exported records for inspection
type memoryExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *memoryExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range records {
		e.records = append(e.records, records[i].Clone())
	}
	return nil
}

func (e *memoryExporter) Shutdown(context.Context) error {
	return nil
}

func (e *memoryExporter) ForceFlush(context.Context) error {
	return nil
}

func (e *memoryExporter) bodies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.records))
	for _, r := range e.records {
		out = append(out, r.Body().AsString())
	}
	return out
}

func setupTestLogs(t *testing.T) (*telemetry.LoggerProvider, *memoryExporter) {
	t.Helper()

	previous := global.GetLoggerProvider()
	exporter := &memoryExporter{}
	lp, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:     true,
		ServiceName: "test-service",
	}, nil, telemetry.WithLogProcessor(sdklog.NewSimpleProcessor(exporter)))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = lp.Shutdown(context.Background())
		global.SetLoggerProvider(previous)
	})
	return lp, exporter
}

func TestLogsConfigFromApp(t *testing.T) {
	cfg := telemetry.LogsConfigFromApp(config.TelemetryConfig{
		Enabled:           true,
		LogsEnabled:       true,
		CollectorEndpoint: "collector:4317",
		ServiceName:       "invoice-backend",
		Insecure:          true,
	})
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "collector:4317", cfg.CollectorEndpoint)
	assert.True(t, cfg.Insecure)

	cfg = telemetry.LogsConfigFromApp(config.TelemetryConfig{Enabled: false, LogsEnabled: true})
	assert.False(t, cfg.Enabled)
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{Enabled: false}, nil)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.ForceFlush(context.Background()))
	assert.NoError(t, lp.Shutdown(context.Background()))

	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base, zapcore.InfoLevel))
}

func TestLoggerProvider_Bridge(t *testing.T) {
	lp, exporter := setupTestLogs(t)
	require.True(t, lp.IsEnabled())

	core, local := observer.New(zapcore.DebugLevel)
	logger := lp.Bridge(zap.New(core), zapcore.WarnLevel)

	logger.Info("invoice rendered")
	logger.Warn("render slow", zap.Int64("invoice_number", 42))
	logger.Error("render failed")

	assert.Equal(t, 3, local.Len())
	assert.Equal(t, []string{"render slow", "render failed"}, exporter.bodies())

	exporter.mu.Lock()
	defer exporter.mu.Unlock()
	require.Len(t, exporter.records, 2)
	assert.Equal(t, log.SeverityWarn, exporter.records[0].Severity())
	assert.Equal(t, log.SeverityError, exporter.records[1].Severity())
}

func TestLoggerProvider_BridgeKeepsFields(t *testing.T) {
	lp, exporter := setupTestLogs(t)

	core, _ := observer.New(zapcore.DebugLevel)
	logger := lp.Bridge(zap.New(core), zapcore.DebugLevel).With(zap.String("request_id", "req-1"))
	logger.Debug("validating")

	exporter.mu.Lock()
	defer exporter.mu.Unlock()
	require.Len(t, exporter.records, 1)

	var found bool
	exporter.records[0].WalkAttributes(func(kv log.KeyValue) bool {
		if kv.Key == "request_id" {
			found = kv.Value.AsString() == "req-1"
			return false
		}
		return true
	})
	assert.True(t, found)
}
