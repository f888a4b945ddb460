// Package ratelimit bounds the per-session request rate with a token
// bucket. Buckets refill continuously: a bucket goes from empty to full
// over exactly 60 seconds of elapsed time, whatever the configured
// capacity, so capacity doubles as requests-per-minute.
package ratelimit

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
)

// ErrLimited reports a denied admission. It carries the configured
// limit and the remaining-token estimate so the caller can build a
// useful message.
type ErrLimited struct {
	Limit     int
	Remaining int
}

func (e *ErrLimited) Error() string {
	return fmt.Sprintf(
		"rate limit exceeded: too many requests, please wait before retrying (limit: %d requests/minute, remaining tokens: %d)",
		e.Limit, e.Remaining,
	)
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// Limiter is a concurrency-safe per-key token bucket. Construct with
// New; the zero value is not usable.
type Limiter struct {
	rate int // capacity, in requests per minute

	mu      sync.Mutex
	buckets map[string]*bucket

	now func() time.Time // test hook
}

// New creates a limiter allowing requestsPerMinute requests per key.
// A non-positive rate is a configuration error, not something to clamp.
func New(requestsPerMinute int) (*Limiter, error) {
	if requestsPerMinute <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", requestsPerMinute)
	}
	return &Limiter{
		rate:    requestsPerMinute,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}, nil
}

// Limit returns the configured capacity in requests per minute.
func (l *Limiter) Limit() int { return l.rate }

// refill tops up the bucket for key, creating a full bucket on first
// touch, and stamps the refill time. Callers must hold l.mu.
func (l *Limiter) refill(key string) *bucket {
	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.rate), lastRefill: now}
		l.buckets[key] = b
		return b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	refillRate := float64(l.rate) / 60.0
	b.tokens = math.Min(float64(l.rate), b.tokens+elapsed*refillRate)
	b.lastRefill = now
	return b
}

// Allow reports whether a request for key is admitted, consuming one
// token when it is. Denial is synchronous: no queueing, no delay.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.refill(key)
	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}

	slog.Warn("rate limit exceeded", "key", short(key))
	return false
}

// Remaining returns the whole tokens currently available for key
// without consuming any. Diagnostic use only.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return int(l.refill(key).tokens)
}

// Reset drops all state for key, as if it had never been seen. Its
// next request starts from a full bucket.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.buckets, key)
	l.mu.Unlock()
	slog.Debug("rate limit reset", "key", short(key))
}

func short(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:8] + "..."
}
