package auth

import (
	"sync"

	domuser "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/user"
)

// Session is the authentication state of one admin browser. Observers are
// told about every transition.
type Session struct {
	id string

	mu        sync.Mutex
	user      *domuser.User
	observers map[int]func(*domuser.User)
	nextID    int
}

func NewSession(id string) *Session {
	return &Session{id: id, observers: make(map[int]func(*domuser.User))}
}

func (s *Session) ID() string {
	return s.id
}

// CurrentUser returns the signed-in user, or nil.
func (s *Session) CurrentUser() *domuser.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

// OnAuthStateChanged registers fn and calls it once with the current user.
// The returned function removes fn.
func (s *Session) OnAuthStateChanged(fn func(*domuser.User)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	current := s.user
	s.mu.Unlock()

	fn(copyUser(current))

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Session) set(u *domuser.User) {
	s.mu.Lock()
	s.user = copyUser(u)
	observers := make([]func(*domuser.User), 0, len(s.observers))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.observers[i]; ok {
			observers = append(observers, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(copyUser(u))
	}
}

func copyUser(u *domuser.User) *domuser.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
