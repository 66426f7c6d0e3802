package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/invoicegen/backend/internal/domain/printing"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Printing  PrintingConfig
	Telemetry TelemetryConfig
	Profiling ProfilingConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
	RateLimit        int           // requests per client per window, 0 disables
	RateLimitWindow  time.Duration // rate limit window
	DocsEnabled      bool          // serve the Swagger UI under /swagger
	DocsAllowedIPs   []string      // IPs or CIDRs allowed to read the docs, empty allows all
}

// PrintingConfig holds invoice document settings. Lengths are in points.
// Zero values fall back to the built-in layout.
type PrintingConfig struct {
	PaperSize     string   // A4, A5, LETTER
	Orientation   string   // PORTRAIT, LANDSCAPE
	Margin        float64  // uniform page margin
	CellPadding   float64  // gutter between numeric columns
	TextPadding   float64  // table text inset
	RowHeight     float64  // table banner height
	TableFontSize float64  // header and row font size
	TitleFontSize float64  // document title font size
	Title         string   // document title text
	DateLayout    string   // Go time layout for dates
	Columns       []string // numeric column order, left to right
	FontFamily    string   // core font: Helvetica, Times, Courier
	Creator       string   // PDF creator metadata
	Compress      bool     // compress page content streams
	// DocumentTimestamp is written as the PDF creation date so repeated
	// renders of one invoice are byte-identical
	DocumentTimestamp time.Time
	// RenderTimeout bounds the HTTP handler, not the render itself
	RenderTimeout time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool          // Whether to enable OpenTelemetry
	CollectorEndpoint string        // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64       // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string        // Service name for traces
	Insecure          bool          // Use insecure (non-TLS) connection (development only)
	MetricsEnabled    bool          // Export metrics through OTLP
	MetricsInterval   time.Duration // Metrics export interval
	LogsEnabled       bool          // Mirror zap logs to the collector
	SpanProfiles      bool          // Attach span IDs to profiling samples
}

// ProfilingConfig holds Pyroscope continuous profiling configuration
type ProfilingConfig struct {
	Enabled           bool
	ServerAddress     string   // e.g. "http://pyroscope:4040"
	ApplicationName   string   // defaults to the telemetry service name
	ProfileTypes      []string // cpu, alloc_objects, alloc_space, inuse_objects, inuse_space, goroutines
	BasicAuthUser     string
	BasicAuthPassword string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with INVOICE_ prefix (e.g., INVOICE_PRINTING_PAPER_SIZE)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("INVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
			RateLimit:        v.GetInt("http.rate_limit"),
			RateLimitWindow:  v.GetDuration("http.rate_limit_window"),
			DocsEnabled:      v.GetBool("http.docs_enabled"),
			DocsAllowedIPs:   v.GetStringSlice("http.docs_allowed_ips"),
		},
		Printing: PrintingConfig{
			PaperSize:         v.GetString("printing.paper_size"),
			Orientation:       v.GetString("printing.orientation"),
			Margin:            v.GetFloat64("printing.margin"),
			CellPadding:       v.GetFloat64("printing.cell_padding"),
			TextPadding:       v.GetFloat64("printing.text_padding"),
			RowHeight:         v.GetFloat64("printing.row_height"),
			TableFontSize:     v.GetFloat64("printing.table_font_size"),
			TitleFontSize:     v.GetFloat64("printing.title_font_size"),
			Title:             v.GetString("printing.title"),
			DateLayout:        v.GetString("printing.date_layout"),
			Columns:           v.GetStringSlice("printing.columns"),
			FontFamily:        v.GetString("printing.font_family"),
			Creator:           v.GetString("printing.creator"),
			Compress:          v.GetBool("printing.compress"),
			DocumentTimestamp: v.GetTime("printing.document_timestamp"),
			RenderTimeout:     v.GetDuration("printing.render_timeout"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			SpanProfiles:      v.GetBool("telemetry.span_profiles"),
		},
		Profiling: ProfilingConfig{
			Enabled:           v.GetBool("profiling.enabled"),
			ServerAddress:     v.GetString("profiling.server_address"),
			ApplicationName:   v.GetString("profiling.application_name"),
			ProfileTypes:      v.GetStringSlice("profiling.profile_types"),
			BasicAuthUser:     v.GetString("profiling.basic_auth_user"),
			BasicAuthPassword: v.GetString("profiling.basic_auth_password"),
		},
	}

	// Compression is on unless explicitly disabled
	if !v.IsSet("printing.compress") {
		cfg.Printing.Compress = true
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "invoice-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	// NOTE: CORS origins are not given a default fallback to "*".
	// An empty list means no cross-origin requests are allowed until explicitly configured.
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}

	// Printing defaults
	if cfg.Printing.PaperSize == "" {
		cfg.Printing.PaperSize = string(printing.PaperSizeA4)
	}
	if cfg.Printing.Orientation == "" {
		cfg.Printing.Orientation = string(printing.OrientationPortrait)
	}
	if cfg.Printing.Margin == 0 {
		cfg.Printing.Margin = 30
	}
	if cfg.Printing.CellPadding == 0 {
		cfg.Printing.CellPadding = 20
	}
	if cfg.Printing.TextPadding == 0 {
		cfg.Printing.TextPadding = 4
	}
	if cfg.Printing.RowHeight == 0 {
		cfg.Printing.RowHeight = 20
	}
	if cfg.Printing.TableFontSize == 0 {
		cfg.Printing.TableFontSize = 10
	}
	if cfg.Printing.TitleFontSize == 0 {
		cfg.Printing.TitleFontSize = 24
	}
	if cfg.Printing.Title == "" {
		cfg.Printing.Title = "INVOICE"
	}
	if cfg.Printing.DateLayout == "" {
		cfg.Printing.DateLayout = "1/2/2006"
	}
	if cfg.Printing.FontFamily == "" {
		cfg.Printing.FontFamily = "Helvetica"
	}
	if cfg.Printing.Creator == "" {
		cfg.Printing.Creator = cfg.App.Name
	}
	if cfg.Printing.DocumentTimestamp.IsZero() {
		cfg.Printing.DocumentTimestamp = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if cfg.Printing.RenderTimeout == 0 {
		cfg.Printing.RenderTimeout = 10 * time.Second
	}

	// Telemetry defaults
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0 // 100% in development
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	// Note: Insecure defaults to false for safety (TLS enabled by default)

	if cfg.Profiling.ApplicationName == "" {
		cfg.Profiling.ApplicationName = cfg.Telemetry.ServiceName
	}
	if len(cfg.Profiling.ProfileTypes) == 0 {
		cfg.Profiling.ProfileTypes = []string{"cpu", "alloc_space", "inuse_space"}
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	p := c.Printing
	if !printing.PaperSize(strings.ToUpper(p.PaperSize)).IsValid() {
		return fmt.Errorf("printing.paper_size %q is not supported", p.PaperSize)
	}
	if !printing.Orientation(strings.ToUpper(p.Orientation)).IsValid() {
		return fmt.Errorf("printing.orientation %q is not supported", p.Orientation)
	}
	if p.Margin < 0 {
		return fmt.Errorf("printing.margin cannot be negative")
	}
	if p.CellPadding < 0 || p.TextPadding < 0 {
		return fmt.Errorf("printing.cell_padding and printing.text_padding cannot be negative")
	}
	if p.RowHeight < 0 {
		return fmt.Errorf("printing.row_height must be positive")
	}
	if p.TableFontSize < 0 || p.TitleFontSize < 0 {
		return fmt.Errorf("printing font sizes must be positive")
	}
	if len(p.Columns) > 0 && len(p.Columns) != 3 {
		return fmt.Errorf("printing.columns must list quantity, rate and amount, got %d entries", len(p.Columns))
	}
	if c.HTTP.MaxBodySize < 0 {
		return fmt.Errorf("http.max_body_size cannot be negative")
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("http.rate_limit cannot be negative")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		// CORS must not use wildcard in production
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Log.Level == "debug" {
			return fmt.Errorf("log.level cannot be 'debug' in production")
		}
	}

	// Validate telemetry configuration (all environments)
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Profiling.Enabled && c.Profiling.ServerAddress == "" {
		return fmt.Errorf("profiling.server_address is required when profiling is enabled")
	}

	return nil
}

// IsProduction reports whether the application runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
