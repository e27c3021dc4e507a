package cartstore

import (
	"context"
	"sync"
	"time"

	domcart "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/cart"
)

const pruneEvery = time.Minute

// Memory is an in-process Storage, used when no Redis is configured. Like
// the Redis store, a non-zero ttl is refreshed on every write and expired
// carts read as missing.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	values    map[string]memoryEntry
	nextPrune time.Time
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, values: make(map[string]memoryEntry)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.values[key]
	if !ok || m.expired(e, m.now()) {
		return nil, domcart.ErrKeyNotFound
	}
	return append([]byte(nil), e.value...), nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.prune(now)

	e := memoryEntry{value: append([]byte(nil), value...)}
	if m.ttl > 0 {
		e.expires = now.Add(m.ttl)
	}
	m.values[key] = e
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len counts the stored keys, expired ones included until the next prune.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

func (m *Memory) expired(e memoryEntry, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// prune drops expired carts, at most once per pruneEvery. Callers hold mu.
func (m *Memory) prune(now time.Time) {
	if m.ttl <= 0 || now.Before(m.nextPrune) {
		return
	}
	for k, e := range m.values {
		if m.expired(e, now) {
			delete(m.values, k)
		}
	}
	m.nextPrune = now.Add(pruneEvery)
}
