package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/render"

	apperrors "github.com/tendant/simple-loginlogout/pkg/errors"
)

// Config holds the per-client limits of a Middleware
type Config struct {
	Capacity   int           // max burst per client
	RefillRate float64       // requests per second per client
	BucketTTL  time.Duration // how long to keep inactive buckets in memory
	// TrustProxy keys clients by X-Forwarded-For / X-Real-IP. Enable only
	// behind a proxy that overwrites those headers.
	TrustProxy bool
}

// DefaultLoginConfig allows bursts of 10 login attempts, refilled at 10 per minute.
func DefaultLoginConfig() Config {
	return Config{
		Capacity:   10,
		RefillRate: 10.0 / 60.0,
		BucketTTL:  time.Hour,
	}
}

// Middleware limits requests per client IP
type Middleware struct {
	config  Config
	limiter *RateLimiter
}

func NewMiddleware(config Config) *Middleware {
	if config.Capacity <= 0 {
		config.Capacity = DefaultLoginConfig().Capacity
	}
	if config.RefillRate <= 0 {
		config.RefillRate = DefaultLoginConfig().RefillRate
	}
	return &Middleware{
		config:  config,
		limiter: NewRateLimiter(config.Capacity, config.RefillRate, config.BucketTTL),
	}
}

// Handler rejects a client with 429 once its bucket is empty.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r, m.config.TrustProxy)
		if !m.limiter.Allow(ip) {
			m.rateLimitExceeded(w, r, ip)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.config.Capacity))
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) rateLimitExceeded(w http.ResponseWriter, r *http.Request, ip string) {
	slog.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path, "method", r.Method)

	retryAfter := int(math.Max(1, m.limiter.RetryAfter(ip).Seconds()))
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.config.Capacity))

	render.Status(r, http.StatusTooManyRequests)
	render.JSON(w, r, map[string]interface{}{
		"code":        string(apperrors.ErrCodeRateLimitExceeded),
		"message":     "Too many requests. Please try again later.",
		"retry_after": retryAfter,
	})
}

func (m *Middleware) GetStats() Stats {
	return m.limiter.GetStats()
}

// Reset clears the limit of one client, e.g. after a successful login.
func (m *Middleware) Reset(r *http.Request) {
	m.limiter.Reset(getClientIP(r, m.config.TrustProxy))
}

func (m *Middleware) Close() {
	m.limiter.Close()
}

// getClientIP keys on the TCP peer. Proxy headers are client controlled and
// only read when trustProxy is set.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := forwardedIP(r); ip != "" {
			return ip
		}
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

func forwardedIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// first entry is the original client
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return ""
}
