package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Second)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if ok, _ := rl.allow("test-ip"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	ok, wait := rl.allow("test-ip")
	if ok {
		t.Error("4th request should be rate-limited")
	}
	if wait <= 0 || wait > time.Second {
		t.Errorf("wait = %v, want within the window", wait)
	}
	if ok, _ := rl.allow("other-ip"); !ok {
		t.Error("different IP should be allowed")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(2, 100*time.Millisecond)
	defer rl.Stop()

	rl.allow("test-ip")
	rl.allow("test-ip")
	if ok, _ := rl.allow("test-ip"); ok {
		t.Error("should be rate-limited")
	}

	time.Sleep(150 * time.Millisecond)

	if ok, _ := rl.allow("test-ip"); !ok {
		t.Error("should be allowed after window expires")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	next, _ := okHandler()
	h := rl.Middleware(next)

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/posts/x/comments", nil)
		req.RemoteAddr = ip + ":1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := send("198.51.100.1"); rr.Code != http.StatusOK {
			t.Fatalf("request %d: code %d", i+1, rr.Code)
		}
	}
	rr := send("198.51.100.1")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("code = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if errorBody(t, rr) == "" {
		t.Error("empty error message")
	}
	if rr := send("198.51.100.2"); rr.Code != http.StatusOK {
		t.Errorf("other client: code %d", rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:4000", "192.0.2.1"},
		{"ipv6 remote", nil, "[2001:db8::1]:4000", "2001:db8::1"},
		{"no port", nil, "192.0.2.1", "192.0.2.1"},
		{"x-forwarded-for first hop", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.2:1", "203.0.113.5"},
		{"x-real-ip", map[string]string{"X-Real-IP": " 203.0.113.7 "}, "10.0.0.2:1", "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(5, 50*time.Millisecond)
	defer rl.Stop()

	rl.allow("stale")
	time.Sleep(80 * time.Millisecond)
	rl.allow("fresh")
	rl.cleanup()

	rl.mu.RLock()
	_, staleKept := rl.clients["stale"]
	_, freshKept := rl.clients["fresh"]
	rl.mu.RUnlock()

	if staleKept {
		t.Error("stale client not removed")
	}
	if !freshKept {
		t.Error("recent client removed")
	}
}

func TestRateLimiterStopTwice(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	rl.Stop()
	rl.Stop()
}
