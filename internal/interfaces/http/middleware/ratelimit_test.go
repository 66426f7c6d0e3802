package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestLimiter(t *testing.T, limit int, period time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, period)
	rl.now = clock.Now
	t.Cleanup(rl.Stop)
	return rl, clock
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows up to the limit", func(t *testing.T) {
		rl, _ := newTestLimiter(t, 3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow("client"), "request %d should be allowed", i+1)
		}
		assert.False(t, rl.Allow("client"))
		assert.Equal(t, 0, rl.Remaining("client"))
	})

	t.Run("clients are independent", func(t *testing.T) {
		rl, _ := newTestLimiter(t, 1, time.Minute)

		assert.True(t, rl.Allow("a"))
		assert.False(t, rl.Allow("a"))
		assert.True(t, rl.Allow("b"))
	})

	t.Run("new window after the period", func(t *testing.T) {
		rl, clock := newTestLimiter(t, 2, time.Minute)

		rl.Allow("client")
		rl.Allow("client")
		assert.False(t, rl.Allow("client"))

		clock.Advance(40 * time.Second)
		assert.Equal(t, 20*time.Second, rl.RetryAfter("client"))

		clock.Advance(20 * time.Second)
		assert.Equal(t, 2, rl.Remaining("client"))
		assert.True(t, rl.Allow("client"))
		assert.Equal(t, 1, rl.Remaining("client"))
	})

	t.Run("remaining for unknown client", func(t *testing.T) {
		rl, _ := newTestLimiter(t, 5, time.Minute)
		assert.Equal(t, 5, rl.Remaining("nobody"))
		assert.Zero(t, rl.RetryAfter("nobody"))
	})

	t.Run("evicts idle clients", func(t *testing.T) {
		rl, clock := newTestLimiter(t, 5, time.Minute)
		rl.Allow("idle")

		clock.Advance(3 * time.Minute)
		rl.evict()

		rl.mu.Lock()
		defer rl.mu.Unlock()
		assert.Empty(t, rl.clients)
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		rl, _ := newTestLimiter(t, 100, time.Minute)
		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0

		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if rl.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 100, allowed)
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		rl := NewRateLimiter(1, time.Minute)
		rl.Stop()
		assert.NotPanics(t, rl.Stop)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 2, time.Minute)
	router := gin.New()
	router.Use(RateLimit(rl))
	router.POST("/invoices/pdf", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/invoices/pdf", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := send("192.0.2.1:1000")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, send("192.0.2.1:1001").Code)

	w = send("192.0.2.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "ERR_RATE_LIMITED")

	// Another address has its own window
	assert.Equal(t, http.StatusOK, send("192.0.2.2:1000").Code)
}

func TestRateLimitByKey(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)
	router := gin.New()
	router.Use(RateLimitByKey(rl, func(c *gin.Context) string {
		return c.GetHeader("X-Api-Key")
	}))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	for _, tc := range []struct {
		key    string
		status int
	}{
		{"k1", http.StatusOK},
		{"k1", http.StatusTooManyRequests},
		{"k2", http.StatusOK},
	} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Api-Key", tc.key)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, tc.key)
	}
}
