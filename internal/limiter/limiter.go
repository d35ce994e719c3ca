// Package limiter implements fixed-window rate limiting with pluggable
// backends. The memory backend serves single-instance deployments; the Redis
// backend shares windows across replicas.
package limiter

import (
	"context"
	"time"
)

// Result describes one admission decision.
type Result struct {
	Allowed   bool
	Remaining int64
	// RetryAfter is how long until the current window resets. Only meaningful
	// when Allowed is false.
	RetryAfter time.Duration
}

// Limiter admits or rejects one event for the given key.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Config is one rate class: at most Rate events per Window per key.
type Config struct {
	Rate   int64
	Window time.Duration
	// KeyPrefix isolates classes that share a backend.
	KeyPrefix string
}
