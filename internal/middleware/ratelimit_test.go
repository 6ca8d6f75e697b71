package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestIPRateLimiter_Allow(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)

	ip := "192.168.1.1"
	if !limiter.Allow(ip) {
		t.Error("first request should be allowed")
	}
	if !limiter.Allow(ip) {
		t.Error("second request should be allowed within burst")
	}
	if limiter.Allow(ip) {
		t.Error("third request should be denied, burst exhausted")
	}
}

func TestIPRateLimiter_SeparateBucketsPerIP(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)

	if !limiter.Allow("192.168.1.1") {
		t.Error("first IP should be allowed")
	}
	if !limiter.Allow("192.168.1.2") {
		t.Error("second IP has its own bucket")
	}
	if limiter.Allow("192.168.1.1") {
		t.Error("first IP exhausted its bucket")
	}
}

func TestIPRateLimiter_AllowAfterWait(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(10), 1)

	ip := "192.168.1.1"
	if !limiter.Allow(ip) {
		t.Error("first request should be allowed")
	}
	if limiter.Allow(ip) {
		t.Error("immediate second request should be denied")
	}

	time.Sleep(150 * time.Millisecond)

	if !limiter.Allow(ip) {
		t.Error("request after refill should be allowed")
	}
}

func TestIPRateLimiter_Concurrency(t *testing.T) {
	limiter := NewIPRateLimiter(100, 100)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter.Allow("192.168.1.1")
		}()
	}
	wg.Wait()
}

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)

	handler := RateLimit(limiter, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/rooms", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("first request should pass, got %d", w.Result().StatusCode)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("second request should be limited, got %d", w.Result().StatusCode)
	}
}

func TestRateLimitFunc(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)

	handler := RateLimitFunc(limiter, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "192.168.1.2:12345"
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("first request should pass, got %d", w.Result().StatusCode)
	}
}

func TestClientIP_XForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")
	req.RemoteAddr = "192.168.1.1:12345"

	if ip := clientIP(req); ip != "1.2.3.4" {
		t.Errorf("expected first X-Forwarded-For entry, got %s", ip)
	}
}

func TestClientIP_XRealIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Real-IP", "5.6.7.8")
	req.RemoteAddr = "192.168.1.1:12345"

	if ip := clientIP(req); ip != "5.6.7.8" {
		t.Errorf("expected IP from X-Real-IP, got %s", ip)
	}
}

func TestClientIP_RemoteAddr(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"

	if ip := clientIP(req); ip != "192.168.1.1:12345" {
		t.Errorf("expected RemoteAddr fallback, got %s", ip)
	}
}
