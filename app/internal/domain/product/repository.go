package product

import (
	"context"
	"time"
)

type Repository interface {
	Add(ctx context.Context, f Fields, createdAt time.Time) (*Product, error)
	Update(ctx context.Context, id string, f Fields, updatedAt time.Time) (*Product, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
}

// Feed pushes the whole collection every time it changes.
type Feed interface {
	Subscribe(ctx context.Context) (*Subscription, error)
}
