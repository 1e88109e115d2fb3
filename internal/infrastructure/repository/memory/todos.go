package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"todo-web/internal/domain"
)

// TodoRepository implements domain.TodoRepository in memory.
type TodoRepository struct {
	mu     sync.RWMutex
	items  map[int64]domain.Todo
	nextID int64
}

// NewTodoRepository creates an empty repository.
func NewTodoRepository() *TodoRepository {
	return &TodoRepository{items: make(map[int64]domain.Todo)}
}

// ListByOwner returns owner's todos ordered by ID.
func (r *TodoRepository) ListByOwner(_ context.Context, owner int64) ([]domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Todo, 0)
	for _, t := range r.items {
		if t.Owner == owner {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get returns domain.ErrTodoNotFound when id is missing or belongs to someone else.
func (r *TodoRepository) Get(_ context.Context, owner, id int64) (*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	if !ok || t.Owner != owner {
		return nil, domain.ErrTodoNotFound
	}
	return &t, nil
}

// Create assigns an ID and timestamps.
func (r *TodoRepository) Create(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now()
	todo.ID = r.nextID
	todo.CreatedAt = now
	todo.UpdatedAt = now
	r.items[todo.ID] = *todo
	return nil
}

// Update overwrites title and completion of an owned todo.
func (r *TodoRepository) Update(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[todo.ID]
	if !ok || existing.Owner != todo.Owner {
		return domain.ErrTodoNotFound
	}

	existing.Title = todo.Title
	existing.Completed = todo.Completed
	existing.UpdatedAt = time.Now()
	r.items[todo.ID] = existing
	*todo = existing
	return nil
}

// Delete removes an owned todo. Missing ids are ignored.
func (r *TodoRepository) Delete(_ context.Context, owner, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.items[id]; ok && t.Owner == owner {
		delete(r.items, id)
	}
	return nil
}
