package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory counts failures per key in fixed windows.
type Memory struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*window
}

type window struct {
	count   int
	expires time.Time
}

func NewMemory(max int, w time.Duration) *Memory {
	return &Memory{max: max, window: w, now: time.Now, entries: make(map[string]*window)}
}

func (m *Memory) Blocked(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.current(key)
	return e != nil && e.count >= m.max, nil
}

func (m *Memory) RecordFailure(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.current(key)
	if e == nil {
		e = &window{expires: m.now().Add(m.window)}
		m.entries[key] = e
	}
	e.count++
	return nil
}

func (m *Memory) Reset(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *Memory) current(key string) *window {
	e, ok := m.entries[key]
	if !ok {
		return nil
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil
	}
	return e
}
