package main

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicegen/backend/internal/infrastructure/config"
	"github.com/invoicegen/backend/internal/infrastructure/logger"
	"github.com/invoicegen/backend/internal/infrastructure/telemetry"
	"github.com/invoicegen/backend/internal/interfaces/http/handler"
	"github.com/invoicegen/backend/internal/interfaces/http/middleware"
	"github.com/invoicegen/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// healthPath is served outside the versioned API and skipped by access logs and tracing
const healthPath = "/health"

// serverDeps are the collaborators the HTTP engine is assembled from
type serverDeps struct {
	cfg     *config.Config
	log     *zap.Logger
	service handler.InvoiceService
	meters  *telemetry.MeterProvider
	limiter *middleware.RateLimiter // nil disables rate limiting
	version string
}

// newEngine builds the gin engine with the full middleware stack.
// Order matters: the request ID must exist before anything logs, and the
// span must be open before the access log and metrics read it.
func newEngine(d serverDeps) *gin.Engine {
	engine := gin.New()

	if len(d.cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(d.cfg.HTTP.TrustedProxies); err != nil {
			d.log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	tracingCfg := middleware.DefaultTracingConfig()
	tracingCfg.ServiceName = d.cfg.Telemetry.ServiceName
	tracingCfg.Enabled = d.cfg.Telemetry.Enabled
	tracingCfg.SkipPaths = []string{healthPath}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = d.cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = d.cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = d.cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(d.log),
		middleware.TracingWithConfig(tracingCfg),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(d.log, logger.WithSkipPaths(healthPath)),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: d.meters,
			Enabled:       d.meters != nil && d.meters.IsEnabled(),
			Logger:        d.log,
		}),
		middleware.Secure(),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(d.cfg.HTTP.MaxBodySize),
	)

	system := handler.NewSystemHandler(d.version,
		handler.WithServiceName(d.cfg.Telemetry.ServiceName),
		handler.WithRenderer(handler.RendererInfo{
			PaperSize:   d.cfg.Printing.PaperSize,
			Orientation: d.cfg.Printing.Orientation,
			FontFamily:  d.cfg.Printing.FontFamily,
		}),
	)
	engine.GET(healthPath, system.Health)

	if d.cfg.HTTP.DocsEnabled {
		router.RegisterDocs(engine, middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    true,
			AllowedIPs: d.cfg.HTTP.DocsAllowedIPs,
		}))
	}

	var apiMiddleware []gin.HandlerFunc
	if d.limiter != nil {
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(d.limiter))
	}

	router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithGroupMiddleware(apiMiddleware...),
	).
		Register(handler.NewInvoiceHandler(d.service)).
		Register(system).
		Setup()

	return engine
}
