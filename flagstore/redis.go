package flagstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis persists flags in Redis so "already asked" survives reinstalls and
// is shared across a user's devices. Flags are plain "0"/"1" string values
// with no TTL.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis-backed flag store. prefix is prepended to every
// key (use e.g. "feedback:user:<id>:"); pass "" for none.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// GetBool reads the flag; a missing key reads as false.
func (r *Redis) GetBool(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("flagstore: get %s: %w", key, err)
	}
	return val == "1", nil
}

// SetBool writes the flag.
func (r *Redis) SetBool(ctx context.Context, key string, value bool) error {
	val := "0"
	if value {
		val = "1"
	}
	if err := r.client.Set(ctx, r.prefix+key, val, 0).Err(); err != nil {
		return fmt.Errorf("flagstore: set %s: %w", key, err)
	}
	return nil
}
