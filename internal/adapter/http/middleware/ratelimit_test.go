package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRateLimiterCountsRejections(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	before := testutil.ToFloat64(rateLimitHits)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if i == 0 && rr.Code != http.StatusOK {
			t.Fatalf("first request should pass, got %d", rr.Code)
		}
		if i == 1 && rr.Code != http.StatusTooManyRequests {
			t.Fatalf("second request should be limited, got %d", rr.Code)
		}
	}

	if got := testutil.ToFloat64(rateLimitHits) - before; got != 1 {
		t.Fatalf("expected 1 rate limit hit recorded, got %v", got)
	}
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"first forwarded entry wins", "203.0.113.7, 10.0.0.1", "", "10.0.0.2:80", "203.0.113.7"},
		{"real ip when no forwarded", "", "198.51.100.4", "10.0.0.2:80", "198.51.100.4"},
		{"remote addr stripped of port", "", "", "192.0.2.1:5000", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}

			if got := clientIP(req); got != tt.want {
				t.Fatalf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
