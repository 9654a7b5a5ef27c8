// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts attempts per identifier within a fixed window.
type Limiter interface {
	Allow(ctx context.Context, identifier string) (*RateLimitInfo, error)
	// RecordSuccess clears the attempts of identifier.
	RecordSuccess(ctx context.Context, identifier string) error
	Close() error
}

// Config holds rate limiting configuration
type Config struct {
	WindowSize    time.Duration // Time window for rate limiting
	MaxAttempts   int           // Maximum attempts per window
	CleanupPeriod time.Duration // How often to clean up old entries
	BanDuration   time.Duration // Zero blocks only until the window resets
}

// DefaultAuthConfig returns the limits for the login and register routes.
func DefaultAuthConfig() *Config {
	return &Config{
		WindowSize:    15 * time.Minute,
		MaxAttempts:   20,
		CleanupPeriod: 30 * time.Minute,
	}
}

// RateLimitInfo contains information about rate limit status
type RateLimitInfo struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
	Banned     bool
}

// attemptRecord tracks attempts for an IP/identifier
type attemptRecord struct {
	Count     int
	FirstSeen time.Time
	LastSeen  time.Time
	BannedAt  *time.Time
}

// MemoryRateLimiter implements in-memory rate limiting
type MemoryRateLimiter struct {
	config   *Config
	attempts map[string]*attemptRecord
	mu       sync.Mutex
	stopCh   chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

var _ Limiter = (*MemoryRateLimiter)(nil)

// NewMemoryRateLimiter creates a new in-memory rate limiter
func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	limiter := &MemoryRateLimiter{
		config:   config,
		attempts: make(map[string]*attemptRecord),
		stopCh:   make(chan struct{}),
		now:      time.Now,
	}

	if config.CleanupPeriod > 0 {
		go limiter.cleanupLoop()
	}

	return limiter
}

// Allow checks if a request should be allowed
func (rl *MemoryRateLimiter) Allow(_ context.Context, identifier string) (*RateLimitInfo, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	record, exists := rl.attempts[identifier]

	if !exists || rl.windowExpired(record, now) {
		rl.attempts[identifier] = &attemptRecord{Count: 1, FirstSeen: now, LastSeen: now}
		return rl.allowed(1, now), nil
	}

	if record.BannedAt != nil {
		remainingBan := rl.config.BanDuration - now.Sub(*record.BannedAt)
		return &RateLimitInfo{
			Limit:      rl.config.MaxAttempts,
			ResetTime:  record.BannedAt.Add(rl.config.BanDuration),
			RetryAfter: remainingBan,
			Banned:     true,
		}, nil
	}

	record.Count++
	record.LastSeen = now

	if record.Count > rl.config.MaxAttempts {
		if rl.config.BanDuration > 0 {
			banTime := now
			record.BannedAt = &banTime
			return &RateLimitInfo{
				Limit:      rl.config.MaxAttempts,
				ResetTime:  now.Add(rl.config.BanDuration),
				RetryAfter: rl.config.BanDuration,
				Banned:     true,
			}, nil
		}
		reset := record.FirstSeen.Add(rl.config.WindowSize)
		return &RateLimitInfo{
			Limit:      rl.config.MaxAttempts,
			ResetTime:  reset,
			RetryAfter: reset.Sub(now),
		}, nil
	}

	info := rl.allowed(record.Count, now)
	info.ResetTime = record.FirstSeen.Add(rl.config.WindowSize)
	return info, nil
}

func (rl *MemoryRateLimiter) allowed(count int, now time.Time) *RateLimitInfo {
	return &RateLimitInfo{
		Allowed:   true,
		Limit:     rl.config.MaxAttempts,
		Remaining: rl.config.MaxAttempts - count,
		ResetTime: now.Add(rl.config.WindowSize),
	}
}

// windowExpired reports whether record no longer counts: its window has
// passed and any ban has run out.
func (rl *MemoryRateLimiter) windowExpired(record *attemptRecord, now time.Time) bool {
	if record.BannedAt != nil {
		return now.Sub(*record.BannedAt) >= rl.config.BanDuration
	}
	return now.Sub(record.FirstSeen) >= rl.config.WindowSize
}

// RecordSuccess records a successful authentication (resets attempts)
func (rl *MemoryRateLimiter) RecordSuccess(_ context.Context, identifier string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.attempts, identifier)
	return nil
}

// cleanupLoop periodically removes old records
func (rl *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup removes expired records
func (rl *MemoryRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for identifier, record := range rl.attempts {
		if rl.windowExpired(record, now) {
			delete(rl.attempts, identifier)
		}
	}
}

// Close stops the cleanup goroutine
func (rl *MemoryRateLimiter) Close() error {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
	return nil
}

// GetClientIP returns the address limits are keyed on. Forwarding headers
// are client-controlled and only honoured when trustProxy is set, i.e. when
// a proxy in front of the server overwrites them.
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			if ip := parseFirstIP(forwarded); ip != "" {
				return ip
			}
		}
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// parseFirstIP extracts the first valid IP from a comma-separated list
func parseFirstIP(forwarded string) string {
	first, _, _ := strings.Cut(forwarded, ",")
	return strings.TrimSpace(first)
}
