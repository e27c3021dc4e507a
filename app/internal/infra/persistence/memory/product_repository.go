package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
)

// ProductRepository keeps the collection in process. It is also its own
// feed: every write wakes the subscribers.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domproduct.Product
	order    []string

	subsMu  sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string]*domproduct.Product),
		subs:     make(map[int]chan struct{}),
	}
}

func (r *ProductRepository) Add(ctx context.Context, f domproduct.Fields, createdAt time.Time) (*domproduct.Product, error) {
	p := &domproduct.Product{
		ID:          uuid.NewString(),
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Category:    f.Category,
		ImageURL:    f.ImageURL,
		CreatedAt:   &createdAt,
	}

	r.mu.Lock()
	r.products[p.ID] = p
	r.order = append(r.order, p.ID)
	r.mu.Unlock()

	r.notify()
	return p.Clone(), nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, f domproduct.Fields, updatedAt time.Time) (*domproduct.Product, error) {
	r.mu.Lock()
	p, ok := r.products[id]
	if !ok {
		r.mu.Unlock()
		return nil, domproduct.ErrProductNotFound
	}
	p.Name = f.Name
	p.Description = f.Description
	p.Price = f.Price
	p.Category = f.Category
	p.ImageURL = f.ImageURL
	p.UpdatedAt = &updatedAt
	out := p.Clone()
	r.mu.Unlock()

	r.notify()
	return out, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.products[id]; !ok {
		r.mu.Unlock()
		return domproduct.ErrProductNotFound
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.notify()
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*domproduct.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domproduct.ErrProductNotFound
	}
	return p.Clone(), nil
}

// List returns the products in insertion order.
func (r *ProductRepository) List(ctx context.Context) ([]*domproduct.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domproduct.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id].Clone())
	}
	return out, nil
}

func (r *ProductRepository) Ping(ctx context.Context) error {
	return nil
}

// Subscribe emits the current collection and then the whole collection
// after every write.
func (r *ProductRepository) Subscribe(ctx context.Context) (*domproduct.Subscription, error) {
	wake := make(chan struct{}, 1)

	r.subsMu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = wake
	r.subsMu.Unlock()

	return domproduct.Watch(ctx, func(ctx context.Context, emit func(domproduct.Snapshot)) error {
		defer func() {
			r.subsMu.Lock()
			delete(r.subs, id)
			r.subsMu.Unlock()
		}()

		wait := func(ctx context.Context) error {
			select {
			case <-wake:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return domproduct.Relist(ctx, r.List, wait, emit)
	}), nil
}

func (r *ProductRepository) notify() {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	for _, wake := range r.subs {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
}
