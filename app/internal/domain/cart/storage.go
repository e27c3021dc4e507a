package cart

import (
	"context"
	"errors"
)

var (
	ErrKeyNotFound = errors.New("storage key not found")
	ErrEmptyCart   = errors.New("cart is empty")
)

// Storage is a per-browser key-value store.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
