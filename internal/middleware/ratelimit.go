package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/httprate"

	"github.com/aaron/pitwall/internal/logging"
	"github.com/aaron/pitwall/internal/metrics"
)

// Limiter applies a sliding-window per-IP rate limit.
type Limiter struct {
	requests int
	per      time.Duration
	handler  func(http.Handler) http.Handler
}

// NewLimiter creates a rate limiter allowing requests per IP per window.
// Example: NewLimiter(60, time.Minute) = 60 req/min per IP.
func NewLimiter(requests int, per time.Duration) *Limiter {
	l := &Limiter{requests: requests, per: per}
	l.handler = httprate.Limit(requests, per,
		httprate.WithKeyFuncs(clientKey),
		httprate.WithLimitHandler(onLimit),
	)
	return l
}

// Requests is the number of requests allowed per client in each window.
func (l *Limiter) Requests() int {
	return l.requests
}

// Window is the length of the sliding window.
func (l *Limiter) Window() time.Duration {
	return l.per
}

// Middleware returns an HTTP middleware that rate limits by client IP.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return l.handler(next)
}

// Disabled is a pass-through used when rate limiting is switched off.
func Disabled(next http.Handler) http.Handler {
	return next
}

func onLimit(w http.ResponseWriter, r *http.Request) {
	metrics.APIRateLimited.Inc()
	logging.Ctx(r.Context()).Debug().Str("ip", getClientIP(r)).Msg("rate limited")
	http.Error(w, "rate limited", http.StatusTooManyRequests)
}

func clientKey(r *http.Request) (string, error) {
	return getClientIP(r), nil
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.Index(xff, ","); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
