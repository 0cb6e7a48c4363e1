package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/chatterhq/chatter/internal/reliability/circuitbreaker"
)

// Counter is a fixed-window counter, normally Redis INCR+EXPIRE.
type Counter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter enforces a fixed-window request limit per key (client address).
// A circuit breaker around the counter stops hammering Redis while it is
// down; while the breaker is open every request is allowed through.
type Limiter struct {
	counter Counter
	breaker *circuitbreaker.CircuitBreaker
	maxReqs int64
	window  time.Duration
	logger  *slog.Logger
}

// NewLimiter creates a limiter allowing maxRequests per window per key.
func NewLimiter(counter Counter, maxRequests int, window time.Duration, logger *slog.Logger) *Limiter {
	if logger == nil {
		logger = slog.Default()
	}

	return &Limiter{
		counter: counter,
		breaker: circuitbreaker.New(5, 2, 30*time.Second),
		maxReqs: int64(maxRequests),
		window:  window,
		logger:  logger,
	}
}

// Allow reports whether the key may make another request in the current
// window. A counter failure allows the request: availability over
// strictness.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if key == "" {
		return true
	}
	if !l.breaker.Allow() {
		return true
	}

	n, err := l.counter.IncrWindow(ctx, "ratelimit:"+key, l.window)
	if err != nil {
		l.breaker.RecordFailure()
		l.logger.Warn("rate limit counter unavailable", slog.String("error", err.Error()))
		return true
	}
	l.breaker.RecordSuccess()
	return n <= l.maxReqs
}
