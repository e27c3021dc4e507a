package cart

import (
	"context"
	"encoding/json"
	"errors"

	domcart "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/cart"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/logx"
)

// Store keeps the ordered line items of one browser under a single key.
type Store struct {
	storage  domcart.Storage
	onChange func(count int)
}

// NewStore builds a store over storage. onChange, if set, is called with the
// new item count after every successful write.
func NewStore(storage domcart.Storage, onChange func(count int)) *Store {
	return &Store{storage: storage, onChange: onChange}
}

// Get returns the stored items. Missing, unreadable or malformed data
// yields an empty cart.
func (s *Store) Get(ctx context.Context) []domcart.LineItem {
	raw, err := s.storage.Get(ctx, domcart.StorageKey)
	if err != nil {
		if !errors.Is(err, domcart.ErrKeyNotFound) {
			logx.Debug().Err(err).Msg("cart storage unreadable, using empty cart")
		}
		return []domcart.LineItem{}
	}

	var items []domcart.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		logx.Debug().Err(err).Msg("cart storage malformed, using empty cart")
		return []domcart.LineItem{}
	}

	valid := make([]domcart.LineItem, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			valid = append(valid, item)
		}
	}
	return valid
}

// Set replaces the stored items.
func (s *Store) Set(ctx context.Context, items []domcart.LineItem) error {
	if items == nil {
		items = []domcart.LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, domcart.StorageKey, raw); err != nil {
		return err
	}
	if s.onChange != nil {
		s.onChange(domcart.Count(items))
	}
	return nil
}

// Add merges item into the line with the same name and category, or
// appends it with quantity one.
func (s *Store) Add(ctx context.Context, item domcart.LineItem) error {
	items := s.Get(ctx)
	for i := range items {
		if items[i].SameLine(item) {
			items[i].Quantity++
			return s.Set(ctx, items)
		}
	}

	item.Quantity = 1
	return s.Set(ctx, append(items, item))
}

// RemoveAt drops the item at index; out of range indexes are ignored.
func (s *Store) RemoveAt(ctx context.Context, index int) error {
	items := s.Get(ctx)
	if index < 0 || index >= len(items) {
		return nil
	}
	items = append(items[:index], items[index+1:]...)
	return s.Set(ctx, items)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.Set(ctx, nil)
}

// Count is the sum of quantities, shown on the cart badge.
func (s *Store) Count(ctx context.Context) int {
	return domcart.Count(s.Get(ctx))
}
