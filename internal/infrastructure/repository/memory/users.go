// Package memory holds process-local repositories used when no database is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"todo-web/internal/domain"
)

// UserRepository implements domain.UserRepository in memory.
type UserRepository struct {
	mu     sync.RWMutex
	byName map[string]domain.User
	nextID int64
}

// NewUserRepository creates an empty repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{byName: make(map[string]domain.User)}
}

// FindByUsername returns domain.ErrUserNotFound for unknown names.
func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Roles = append([]domain.Role(nil), u.Roles...)
	return &u, nil
}

// Create assigns an ID and stores user.
func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.Username]; exists {
		return domain.ErrUserExists
	}

	r.nextID++
	user.ID = r.nextID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	stored := *user
	stored.Roles = append([]domain.Role(nil), user.Roles...)
	r.byName[user.Username] = stored
	return nil
}
