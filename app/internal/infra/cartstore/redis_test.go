package cartstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	domcart "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/cart"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return srv, NewRedis(client, ttl)
}

func TestRedis_GetSetDelete(t *testing.T) {
	_, store := newRedisStore(t, 0)
	ctx := context.Background()

	_, err := store.Get(ctx, "k")
	require.ErrorIs(t, err, domcart.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "k", []byte(`[{"nombre":"Anillo"}]`)))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, `[{"nombre":"Anillo"}]`, string(got))

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	require.ErrorIs(t, err, domcart.ErrKeyNotFound)
}

func TestRedis_CartsExpire(t *testing.T) {
	srv, store := newRedisStore(t, time.Hour)
	ctx := context.Background()
	scoped := Scope(store, "abc")

	require.NoError(t, scoped.Set(ctx, domcart.StorageKey, []byte("[]")))
	require.Equal(t, time.Hour, srv.TTL("carrito:abc:cart"))

	srv.FastForward(time.Hour)
	_, err := scoped.Get(ctx, domcart.StorageKey)
	require.ErrorIs(t, err, domcart.ErrKeyNotFound)
}

func TestRedis_ServerDown(t *testing.T) {
	srv, store := newRedisStore(t, 0)
	srv.Close()

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	require.NotErrorIs(t, err, domcart.ErrKeyNotFound)
}
