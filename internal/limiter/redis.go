package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the counter and sets the window expiry
// atomically on first hit. Returns the new count and the remaining TTL in
// milliseconds.
var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`)

// Redis is a fixed-window limiter shared across instances.
type Redis struct {
	cfg    Config
	client *redis.Client
}

// NewRedis creates a Redis-backed limiter for one rate class.
func NewRedis(client *redis.Client, cfg Config) *Redis {
	return &Redis{cfg: cfg, client: client}
}

func (r *Redis) Allow(ctx context.Context, key string) (*Result, error) {
	vals, err := fixedWindowScript.Run(ctx, r.client,
		[]string{"ratelimit:" + r.cfg.KeyPrefix + key},
		r.cfg.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return nil, err
	}

	count, ttlMS := vals[0], vals[1]
	if count > r.cfg.Rate {
		return &Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: time.Duration(ttlMS) * time.Millisecond,
		}, nil
	}
	return &Result{
		Allowed:   true,
		Remaining: r.cfg.Rate - count,
	}, nil
}
