package cartstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	domcart "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/cart"
)

// Redis stores cart values as plain strings. A non-zero ttl is refreshed on
// every write, so an abandoned cart eventually disappears.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domcart.ErrKeyNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
