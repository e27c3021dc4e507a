package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login:failures:"

// Redis counts failures with INCR. The key expires at the end of the window.
type Redis struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewRedis(client *redis.Client, max int, window time.Duration) *Redis {
	return &Redis{client: client, max: max, window: window}
}

func (r *Redis) Blocked(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Get(ctx, keyPrefix+key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return n >= r.max, nil
}

// RecordFailure counts one failure. The first failure of a window starts
// its expiry.
func (r *Redis) RecordFailure(ctx context.Context, key string) error {
	k := keyPrefix + key
	n, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return r.client.Expire(ctx, k, r.window).Err()
	}
	return nil
}

func (r *Redis) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, keyPrefix+key).Err()
}
