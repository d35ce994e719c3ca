package limiter

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int64
	resetAt time.Time
}

// Memory is an in-process fixed-window limiter. Expired windows are pruned
// lazily whenever the map grows past a threshold.
type Memory struct {
	cfg Config

	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewMemory creates a memory-backed limiter for one rate class.
func NewMemory(cfg Config) *Memory {
	return &Memory{
		cfg:     cfg,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

const pruneThreshold = 4096

func (m *Memory) Allow(_ context.Context, key string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if len(m.windows) > pruneThreshold {
		for k, w := range m.windows {
			if now.After(w.resetAt) {
				delete(m.windows, k)
			}
		}
	}

	k := m.cfg.KeyPrefix + key
	w, ok := m.windows[k]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(m.cfg.Window)}
		m.windows[k] = w
	}

	w.count++
	if w.count > m.cfg.Rate {
		return &Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: w.resetAt.Sub(now),
		}, nil
	}
	return &Result{
		Allowed:   true,
		Remaining: m.cfg.Rate - w.count,
	}, nil
}
