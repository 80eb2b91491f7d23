package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	l := NewRateLimiter(3, time.Minute)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4", now))
	}
	assert.False(t, l.Allow("1.2.3.4", now))
	assert.True(t, l.Allow("5.6.7.8", now), "other clients have their own bucket")

	// 20 秒补充一个令牌
	assert.True(t, l.Allow("1.2.3.4", now.Add(21*time.Second)))
}

func TestRateLimiter_UpdateResetsBuckets(t *testing.T) {
	l := NewRateLimiter(1, time.Minute)
	now := time.Now()

	assert.True(t, l.Allow("ip", now))
	assert.False(t, l.Allow("ip", now))

	l.Update(5, time.Minute)
	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("ip", now))
	}
	assert.False(t, l.Allow("ip", now))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	l := NewRateLimiter(10, time.Minute)
	now := time.Now()

	l.Allow("old", now.Add(-10*time.Minute))
	l.Allow("fresh", now)
	l.Cleanup(now)

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.visitors, "old")
	assert.Contains(t, l.visitors, "fresh")
}

func TestMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	l := NewRateLimiter(1, time.Minute)
	r.Use(CORS([]string{"http://allowed.test"}), Secure(), l.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://allowed.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://allowed.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
