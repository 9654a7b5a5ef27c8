// File: internal/middleware/ratelimit.go
package middleware

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/iyunix/go-saber/internal/ratelimit"
)

// RateLimitMiddleware creates a rate limiting middleware keyed by client IP.
// Limiter failures let the request through.
func RateLimitMiddleware(limiter ratelimit.Limiter, name string, trustProxy bool, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := ratelimit.GetClientIP(r, trustProxy)

			info, err := limiter.Allow(r.Context(), clientIP)
			if err != nil {
				logger.Error("rate limiter unavailable", "limiter", name, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))

			if !info.Allowed {
				logger.Warn("request rate limited", "limiter", name, "client_ip", clientIP, "banned", info.Banned)

				retryAfter := int(math.Ceil(info.RetryAfter.Seconds()))
				if retryAfter > 0 {
					w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"error":      "Too many attempts. Please try again later.",
					"retryAfter": retryAfter,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuthSuccessMiddleware clears the caller's attempts after a 2xx response.
func AuthSuccessMiddleware(limiter ratelimit.Limiter, name string, trustProxy bool, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapper, r)

			if wrapper.statusCode >= 200 && wrapper.statusCode < 300 {
				clientIP := ratelimit.GetClientIP(r, trustProxy)
				if err := limiter.RecordSuccess(r.Context(), clientIP); err != nil {
					logger.Error("failed to reset rate limit", "limiter", name, "error", err)
					return
				}
				logger.Debug("rate limit reset after successful auth", "limiter", name, "client_ip", clientIP)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
