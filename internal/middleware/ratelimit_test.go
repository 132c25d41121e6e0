package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/ratelimit"
)

func newLimitedRouter(limiter *ratelimit.Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(limiter))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimitMiddleware(t *testing.T) {
	router := newLimitedRouter(ratelimit.New(ratelimit.DefaultConfig()))

	get := func(forwarded string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 3; i++ {
		w := get("203.0.113.9")
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
		if w.Header().Get("X-RateLimit-Remaining") == "" {
			t.Error("missing X-RateLimit-Remaining header")
		}
	}

	w := get("203.0.113.9")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 at the burst limit, got %d", w.Code)
	}
	if w.Header().Get("X-RateLimit-Reset") == "" {
		t.Error("missing X-RateLimit-Reset header on denial")
	}

	// A different client is unaffected.
	if w := get("198.51.100.7"); w.Code != http.StatusOK {
		t.Fatalf("expected second client to pass, got %d", w.Code)
	}
}

func TestRateLimitMiddleware_FingerprintFallback(t *testing.T) {
	router := newLimitedRouter(ratelimit.New(ratelimit.DefaultConfig()))

	// No forwarded header: identity falls back to the UA/language hash, so
	// requests with the same headers share a bucket.
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("User-Agent", "test-agent")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected fingerprinted client to hit the limit, got %d", w.Code)
	}
}
