package api

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/terra-clan/prep-tracker/internal/ratelimit"
)

// RateLimitMiddleware rejects clients that exceed their request budget
type RateLimitMiddleware struct {
	limiter      ratelimit.Limiter
	skipLoopback bool
	retryAfter   int
}

// NewRateLimitMiddleware creates rate limit middleware around limiter.
// Rejected clients are told to retry after window.
func NewRateLimitMiddleware(limiter ratelimit.Limiter, window time.Duration, skipLoopback bool) *RateLimitMiddleware {
	retryAfter := int(window.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	return &RateLimitMiddleware{
		limiter:      limiter,
		skipLoopback: skipLoopback,
		retryAfter:   retryAfter,
	}
}

// Handler keys the budget by client IP. RealIP must run first so proxied
// requests are attributed to the original client.
func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		if m.skipLoopback && isLoopback(ip) {
			next.ServeHTTP(w, r)
			return
		}

		allowed, err := m.limiter.Allow(r.Context(), ip)
		if err != nil {
			// A broken limiter backend should not take the API down with it
			slog.Error("rate limiter unavailable", "error", err, "client_ip", ip)
			next.ServeHTTP(w, r)
			return
		}

		if !allowed {
			slog.Warn("rate limit exceeded", "client_ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(m.retryAfter))
			respondError(w, http.StatusTooManyRequests, "rate_limited",
				"too many requests from this IP, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bodyLimit caps request bodies at max bytes
func bodyLimit(max int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if max > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, max)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isLoopback(ip string) bool {
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.IsLoopback()
}
