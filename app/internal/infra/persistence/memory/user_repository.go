package memory

import (
	"context"
	"strings"
	"sync"

	dom "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/user"
)

type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*dom.User
	nextID  int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: make(map[string]*dom.User)}
}

func (r *UserRepository) Create(ctx context.Context, u *dom.User) (*dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := r.byEmail[key]; ok {
		return nil, dom.ErrEmailAlreadyUsed
	}
	r.nextID++
	stored := *u
	stored.ID = r.nextID
	r.byEmail[key] = &stored

	out := stored
	return &out, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, dom.ErrUserNotFound
	}
	out := *u
	return &out, nil
}
