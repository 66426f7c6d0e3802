package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"INVOICE_APP_NAME":                    os.Getenv("INVOICE_APP_NAME"),
		"INVOICE_APP_ENV":                     os.Getenv("INVOICE_APP_ENV"),
		"INVOICE_APP_PORT":                    os.Getenv("INVOICE_APP_PORT"),
		"INVOICE_LOG_LEVEL":                   os.Getenv("INVOICE_LOG_LEVEL"),
		"INVOICE_PRINTING_PAPER_SIZE":         os.Getenv("INVOICE_PRINTING_PAPER_SIZE"),
		"INVOICE_PRINTING_ORIENTATION":        os.Getenv("INVOICE_PRINTING_ORIENTATION"),
		"INVOICE_PRINTING_MARGIN":             os.Getenv("INVOICE_PRINTING_MARGIN"),
		"INVOICE_PRINTING_CELL_PADDING":       os.Getenv("INVOICE_PRINTING_CELL_PADDING"),
		"INVOICE_PRINTING_ROW_HEIGHT":         os.Getenv("INVOICE_PRINTING_ROW_HEIGHT"),
		"INVOICE_PRINTING_COLUMNS":            os.Getenv("INVOICE_PRINTING_COLUMNS"),
		"INVOICE_PRINTING_COMPRESS":           os.Getenv("INVOICE_PRINTING_COMPRESS"),
		"INVOICE_PRINTING_DOCUMENT_TIMESTAMP": os.Getenv("INVOICE_PRINTING_DOCUMENT_TIMESTAMP"),
		"INVOICE_TELEMETRY_SAMPLING_RATIO":    os.Getenv("INVOICE_TELEMETRY_SAMPLING_RATIO"),
		"INVOICE_HTTP_CORS_ALLOW_ORIGINS":     os.Getenv("INVOICE_HTTP_CORS_ALLOW_ORIGINS"),
		"INVOICE_PROFILING_ENABLED":           os.Getenv("INVOICE_PROFILING_ENABLED"),
		"INVOICE_PROFILING_SERVER_ADDRESS":    os.Getenv("INVOICE_PROFILING_SERVER_ADDRESS"),
		"INVOICE_TELEMETRY_LOGS_ENABLED":      os.Getenv("INVOICE_TELEMETRY_LOGS_ENABLED"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "invoice-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "A4", cfg.Printing.PaperSize)
		assert.Equal(t, "PORTRAIT", cfg.Printing.Orientation)
		assert.Equal(t, 30.0, cfg.Printing.Margin)
		assert.Equal(t, 20.0, cfg.Printing.CellPadding)
		assert.Equal(t, 4.0, cfg.Printing.TextPadding)
		assert.Equal(t, 20.0, cfg.Printing.RowHeight)
		assert.Equal(t, 10.0, cfg.Printing.TableFontSize)
		assert.Equal(t, "1/2/2006", cfg.Printing.DateLayout)
		assert.True(t, cfg.Printing.Compress)
		assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), cfg.Printing.DocumentTimestamp)
		assert.Equal(t, "invoice-backend", cfg.Telemetry.ServiceName)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.False(t, cfg.Telemetry.Enabled)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
		assert.Zero(t, cfg.HTTP.RateLimit)
		assert.Equal(t, time.Minute, cfg.HTTP.RateLimitWindow)
		assert.False(t, cfg.HTTP.DocsEnabled)
		assert.False(t, cfg.Telemetry.LogsEnabled)
		assert.False(t, cfg.Profiling.Enabled)
		assert.Equal(t, "invoice-backend", cfg.Profiling.ApplicationName)
		assert.Equal(t, []string{"cpu", "alloc_space", "inuse_space"}, cfg.Profiling.ProfileTypes)
	})

	t.Run("loads values from environment variables with INVOICE prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICE_APP_NAME", "test-app")
		os.Setenv("INVOICE_APP_PORT", "9000")
		os.Setenv("INVOICE_PRINTING_PAPER_SIZE", "LETTER")
		os.Setenv("INVOICE_PRINTING_ORIENTATION", "LANDSCAPE")
		os.Setenv("INVOICE_PRINTING_MARGIN", "36")
		os.Setenv("INVOICE_PRINTING_COLUMNS", "RATE QUANTITY AMOUNT")
		os.Setenv("INVOICE_PRINTING_COMPRESS", "false")
		os.Setenv("INVOICE_PRINTING_DOCUMENT_TIMESTAMP", "2026-01-02T03:04:05Z")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "LETTER", cfg.Printing.PaperSize)
		assert.Equal(t, "LANDSCAPE", cfg.Printing.Orientation)
		assert.Equal(t, 36.0, cfg.Printing.Margin)
		assert.Equal(t, []string{"RATE", "QUANTITY", "AMOUNT"}, cfg.Printing.Columns)
		assert.False(t, cfg.Printing.Compress)
		assert.True(t, cfg.Printing.DocumentTimestamp.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
		assert.Equal(t, "test-app", cfg.Printing.Creator)
	})

	t.Run("rejects unknown paper size", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICE_PRINTING_PAPER_SIZE", "B5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "printing.paper_size")
	})

	t.Run("rejects negative paddings", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICE_PRINTING_CELL_PADDING", "-5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})

	t.Run("rejects negative row height", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICE_PRINTING_ROW_HEIGHT", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row_height")
	})

	t.Run("rejects incomplete column order", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICE_PRINTING_COLUMNS", "RATE AMOUNT")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "printing.columns")
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICE_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("profiling requires a server address", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICE_PROFILING_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profiling.server_address")

		os.Setenv("INVOICE_PROFILING_SERVER_ADDRESS", "http://pyroscope:4040")
		os.Setenv("INVOICE_TELEMETRY_LOGS_ENABLED", "true")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Profiling.Enabled)
		assert.True(t, cfg.Telemetry.LogsEnabled)
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"INVOICE_APP_ENV":                 os.Getenv("INVOICE_APP_ENV"),
		"INVOICE_LOG_LEVEL":               os.Getenv("INVOICE_LOG_LEVEL"),
		"INVOICE_HTTP_CORS_ALLOW_ORIGINS": os.Getenv("INVOICE_HTTP_CORS_ALLOW_ORIGINS"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("valid production config passes", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICE_APP_ENV", "production")
		os.Setenv("INVOICE_HTTP_CORS_ALLOW_ORIGINS", "https://billing.example.com")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("rejects wildcard CORS in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICE_APP_ENV", "production")
		os.Setenv("INVOICE_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins cannot be '*' in production")
	})

	t.Run("rejects debug logging in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICE_APP_ENV", "production")
		os.Setenv("INVOICE_LOG_LEVEL", "debug")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.level")
	})

	t.Run("wildcard CORS is allowed in development", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICE_HTTP_CORS_ALLOW_ORIGINS", "*")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.IsProduction())
		assert.Equal(t, []string{"*"}, cfg.HTTP.CORSAllowOrigins)
	})
}
