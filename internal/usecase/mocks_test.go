package usecase

import (
	"context"
	"errors"
	"strings"

	"todo-web/internal/domain"
)

// mockUsers implements domain.UserRepository for testing.
type mockUsers struct {
	byName    map[string]domain.User
	nextID    int64
	findErr   error
	createErr error
	creates   int
}

func newMockUsers() *mockUsers {
	return &mockUsers{byName: make(map[string]domain.User)}
}

func (m *mockUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (m *mockUsers) Create(_ context.Context, user *domain.User) error {
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byName[user.Username]; ok {
		return domain.ErrUserExists
	}
	m.nextID++
	user.ID = m.nextID
	m.byName[user.Username] = *user
	return nil
}

// mockHasher implements domain.PasswordHasher with a reversible scheme.
type mockHasher struct {
	verifyErr error
}

func (mockHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (m mockHasher) Verify(password, encoded string) (bool, error) {
	if m.verifyErr != nil {
		return false, m.verifyErr
	}
	return strings.TrimPrefix(encoded, "hashed:") == password, nil
}

// mockSessions implements domain.SessionRepository for testing.
type mockSessions struct {
	current *domain.Session
	setErr  error
	sets    int
	clears  int
}

func (m *mockSessions) Get(_ context.Context) (*domain.Session, bool) {
	return m.current, m.current != nil
}

func (m *mockSessions) Set(_ context.Context, s *domain.Session) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.current = s
	return nil
}

func (m *mockSessions) Clear(_ context.Context) error {
	m.clears++
	m.current = nil
	return nil
}

// mockTodos implements domain.TodoRepository for testing.
type mockTodos struct {
	items  map[int64]domain.Todo
	nextID int64
	err    error
	calls  int
}

func newMockTodos() *mockTodos {
	return &mockTodos{items: make(map[int64]domain.Todo)}
}

func (m *mockTodos) ListByOwner(_ context.Context, owner int64) ([]domain.Todo, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.Todo{}
	for id := int64(1); id <= m.nextID; id++ {
		if t, ok := m.items[id]; ok && t.Owner == owner {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTodos) Get(_ context.Context, owner, id int64) (*domain.Todo, error) {
	m.calls++
	t, ok := m.items[id]
	if !ok || t.Owner != owner {
		return nil, domain.ErrTodoNotFound
	}
	return &t, nil
}

func (m *mockTodos) Create(_ context.Context, todo *domain.Todo) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.nextID++
	todo.ID = m.nextID
	m.items[todo.ID] = *todo
	return nil
}

func (m *mockTodos) Update(_ context.Context, todo *domain.Todo) error {
	m.calls++
	t, ok := m.items[todo.ID]
	if !ok || t.Owner != todo.Owner {
		return domain.ErrTodoNotFound
	}
	m.items[todo.ID] = *todo
	return nil
}

func (m *mockTodos) Delete(_ context.Context, owner, id int64) error {
	m.calls++
	if t, ok := m.items[id]; ok && t.Owner == owner {
		delete(m.items, id)
	}
	return nil
}

// mockBackend implements domain.SessionBackend for purge tests.
type mockBackend struct {
	count int
	err   error
}

func (m *mockBackend) Load(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrSessionNotFound
}

func (m *mockBackend) Save(context.Context, string, *domain.Session) error { return nil }

func (m *mockBackend) Delete(context.Context, string) error { return nil }

func (m *mockBackend) Purge(context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.count, nil
}

var errBoom = errors.New("boom")
