package rdx

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// Init dials Redis. The cache and event emitter degrade gracefully when
// Redis is down, so a failed ping is surfaced but not fatal to callers.
func Init(ctx context.Context) error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return Conn.Ping(ctx).Err()
}

// Get fetches a cached value; empty string when absent or Redis is down.
func Get(ctx context.Context, key string) string {
	if Conn == nil {
		return ""
	}
	val, err := Conn.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// Set stores a value with a TTL, best effort.
func Set(ctx context.Context, key, val string, ttl time.Duration) {
	if Conn == nil {
		return
	}
	Conn.Set(ctx, key, val, ttl)
}
