package admin

import (
	"sync"
	"time"
)

// Registry holds the live controllers by session id until their session
// token expires.
type Registry struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	ctrl    *Controller
	expires time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{ttl: ttl, now: time.Now, entries: make(map[string]*registryEntry)}
}

func (r *Registry) Get(sessionID string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sessionID]
	if !ok {
		return nil, false
	}
	if r.now().After(e.expires) {
		delete(r.entries, sessionID)
		e.ctrl.Close()
		return nil, false
	}
	return e.ctrl, true
}

// Put stores ctrl under its session id, replacing and closing any previous
// controller, and drops expired entries.
func (r *Registry) Put(ctrl *Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, e := range r.entries {
		if now.After(e.expires) {
			delete(r.entries, id)
			e.ctrl.Close()
		}
	}

	id := ctrl.Session().ID()
	if prev, ok := r.entries[id]; ok && prev.ctrl != ctrl {
		prev.ctrl.Close()
	}
	r.entries[id] = &registryEntry{ctrl: ctrl, expires: now.Add(r.ttl)}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
