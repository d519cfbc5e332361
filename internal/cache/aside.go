package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Aside implements the cache-aside pattern: try the cache first, on miss run
// fetch (which must fill dest) and populate the cache with the result. Cache
// failures are never fatal; the fetch path is the source of truth.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	if client != nil {
		raw, err := client.Get(ctx, key).Bytes()
		if err == nil {
			if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
				return nil
			}
			// Corrupt entry, drop it and refetch.
			client.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			// Redis down or flaky. Fall through to the source.
		}
	}

	if err := fetch(); err != nil {
		return err
	}

	if client != nil {
		if raw, jsonErr := json.Marshal(dest); jsonErr == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}
	return nil
}
