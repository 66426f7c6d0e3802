package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicegen/backend/internal/interfaces/http/dto"
)

// APIName is reported by the system info endpoint
const APIName = "Invoice Backend API"

const defaultServiceName = "invoice-backend"

// RendererInfo describes the page the server lays invoices out on
type RendererInfo struct {
	PaperSize   string `json:"paper_size" example:"A4"`
	Orientation string `json:"orientation" example:"PORTRAIT"`
	FontFamily  string `json:"font_family" example:"Helvetica"`
}

// SystemOption configures a SystemHandler
type SystemOption func(*SystemHandler)

// WithServiceName overrides the name reported by the health probe
func WithServiceName(name string) SystemOption {
	return func(h *SystemHandler) {
		if name != "" {
			h.service = name
		}
	}
}

// WithRenderer reports the configured page settings on /system/info
func WithRenderer(info RendererInfo) SystemOption {
	return func(h *SystemHandler) {
		h.renderer = &info
	}
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) SystemOption {
	return func(h *SystemHandler) {
		if now != nil {
			h.now = now
		}
	}
}

// SystemHandler serves the health probe and the /system endpoints
type SystemHandler struct {
	BaseHandler
	version   string
	service   string
	renderer  *RendererInfo
	now       func() time.Time
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(version string, opts ...SystemOption) *SystemHandler {
	h := &SystemHandler{
		version: version,
		service: defaultServiceName,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.startTime = h.now()
	return h
}

// RegisterRoutes mounts the system endpoints on rg
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	system.GET("/info", h.GetSystemInfo)
	system.GET("/ping", h.Ping)
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string        `json:"name" example:"Invoice Backend API"`
	Service   string        `json:"service" example:"invoice-backend"`
	Version   string        `json:"version" example:"1.0.0"`
	GoVersion string        `json:"go_version" example:"go1.25.5"`
	StartedAt string        `json:"started_at" example:"2026-01-23T12:00:00Z"`
	Uptime    string        `json:"uptime" example:"1h30m45s"`
	Renderer  *RendererInfo `json:"renderer,omitempty"`
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Description  Returns version, uptime and the page settings used for rendering
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=SystemInfoResponse}
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(SystemInfoResponse{
		Name:      APIName,
		Service:   h.service,
		Version:   h.version,
		GoVersion: runtime.Version(),
		StartedAt: h.startTime.UTC().Format(time.RFC3339),
		Uptime:    h.now().Sub(h.startTime).Round(time.Second).String(),
		Renderer:  h.renderer,
	}))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=PingResponse}
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(PingResponse{
		Message:   "pong",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	}))
}

// HealthResponse is the body of the liveness probe
type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service" example:"invoice-backend"`
}

// Health godoc
// @ID           getHealth
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Service: h.service})
}
