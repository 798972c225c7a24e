package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewLimiter_Settings(t *testing.T) {
	l := NewLimiter(60, time.Minute)
	if l.Requests() != 60 || l.Window() != time.Minute {
		t.Errorf("want 60 per 1m, got %d per %v", l.Requests(), l.Window())
	}
}

func TestMiddleware_Returns429(t *testing.T) {
	handler := NewLimiter(2, time.Minute).Middleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:12345"

	// First two should succeed
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("request %d: want 200, got %d", i+1, rec.Code)
		}
	}

	// Third should be 429
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("want 429, got %d", rec.Code)
	}
	if retry := rec.Header().Get("Retry-After"); retry != "60" {
		t.Errorf("want Retry-After: 60, got %q", retry)
	}
}

func TestMiddleware_DifferentIPs(t *testing.T) {
	handler := NewLimiter(1, time.Minute).Middleware(okHandler())

	for _, ip := range []string{"10.0.0.1:1000", "10.0.0.2:1000"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: want 200, got %d", ip, rec.Code)
		}
	}
}

func TestMiddleware_ForwardedFor(t *testing.T) {
	handler := NewLimiter(1, time.Minute).Middleware(okHandler())

	send := func(xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.9:1000"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("203.0.113.5, 10.0.0.9"); code != http.StatusOK {
		t.Errorf("first client: want 200, got %d", code)
	}
	if code := send("203.0.113.6"); code != http.StatusOK {
		t.Errorf("second client behind same proxy: want 200, got %d", code)
	}
	if code := send("203.0.113.5"); code != http.StatusTooManyRequests {
		t.Errorf("first client again: want 429, got %d", code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"remote addr", "192.168.1.10:5555", "", "192.168.1.10"},
		{"single xff", "10.0.0.1:1", "198.51.100.7", "198.51.100.7"},
		{"xff chain", "10.0.0.1:1", "198.51.100.7, 10.0.0.1", "198.51.100.7"},
		{"no port", "pipe", "", "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("want %q, got %q", tt.want, got)
			}
		})
	}
}
