package cartstore

import (
	"context"

	domcart "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/cart"
)

const keyPrefix = "carrito:"

// Scoped confines every key to one cart session.
type Scoped struct {
	backend domcart.Storage
	prefix  string
}

func Scope(backend domcart.Storage, sessionID string) *Scoped {
	return &Scoped{backend: backend, prefix: keyPrefix + sessionID + ":"}
}

func (s *Scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.backend.Get(ctx, s.prefix+key)
}

func (s *Scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.backend.Set(ctx, s.prefix+key, value)
}

func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, s.prefix+key)
}
