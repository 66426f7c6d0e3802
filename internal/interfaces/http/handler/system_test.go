package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock advances by step on every call
func stepClock(start time.Time, step time.Duration) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("1.2.3")
	assert.Equal(t, "1.2.3", h.version)
	assert.Equal(t, defaultServiceName, h.service)
	assert.Nil(t, h.renderer)
	assert.False(t, h.startTime.IsZero())

	h = NewSystemHandler("1.2.3", WithServiceName(""), WithClock(nil))
	assert.Equal(t, defaultServiceName, h.service)
	assert.NotNil(t, h.now)
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	start := time.Date(2026, 1, 23, 12, 0, 0, 0, time.UTC)
	h := NewSystemHandler("1.0.0",
		WithServiceName("billing-pdf"),
		WithClock(stepClock(start, 90*time.Second)),
		WithRenderer(RendererInfo{PaperSize: "A5", Orientation: "LANDSCAPE", FontFamily: "Courier"}),
	)
	c, w := newTestContext(http.MethodGet, "/system/info")

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, APIName, data["name"])
	assert.Equal(t, "billing-pdf", data["service"])
	assert.Equal(t, "1.0.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.Equal(t, "2026-01-23T12:00:00Z", data["started_at"])
	assert.Equal(t, "1m30s", data["uptime"])

	renderer, ok := data["renderer"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "A5", renderer["paper_size"])
	assert.Equal(t, "LANDSCAPE", renderer["orientation"])
	assert.Equal(t, "Courier", renderer["font_family"])
}

func TestSystemHandler_GetSystemInfo_NoRenderer(t *testing.T) {
	h := NewSystemHandler("1.0.0")
	c, w := newTestContext(http.MethodGet, "/system/info")

	h.GetSystemInfo(c)

	data, ok := decodeResponse(t, w).Data.(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, data, "renderer")
}

func TestSystemHandler_Ping(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 30, 0, 0, time.FixedZone("CET", 3600))
	h := NewSystemHandler("1.0.0", WithClock(stepClock(start, time.Minute)))
	c, w := newTestContext(http.MethodGet, "/system/ping")

	h.Ping(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data, ok := decodeResponse(t, w).Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pong", data["message"])
	assert.Equal(t, "2026-03-01T07:31:00Z", data["timestamp"])
}

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler("1.0.0", WithServiceName("billing-pdf"))
	c, w := newTestContext(http.MethodGet, "/health")

	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "billing-pdf", body.Service)
}
