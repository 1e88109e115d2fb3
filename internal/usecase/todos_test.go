package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"todo-web/internal/domain"
	"todo-web/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestCreateTodo_Valid(t *testing.T) {
	todos := newMockTodos()
	uc := NewCreateTodo(todos, validation.New(), slog.Default())

	todo, err := uc.Execute(context.Background(), 7, TodoWriteCommand{Title: "buy milk"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), todo.ID)
	assert.Equal(t, int64(7), todo.Owner)
	assert.False(t, todo.Completed)
}

func TestCreateTodo_InvalidTitle(t *testing.T) {
	todos := newMockTodos()
	uc := NewCreateTodo(todos, validation.New(), slog.Default())

	_, err := uc.Execute(context.Background(), 7, TodoWriteCommand{Title: "no"})

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "title", verr.Fields[0].Field)
	assert.Equal(t, 0, todos.calls, "repository must not be touched")
}

func TestUpdateTodo_OwnerScoped(t *testing.T) {
	todos := newMockTodos()
	create := NewCreateTodo(todos, validation.New(), slog.Default())
	created, err := create.Execute(context.Background(), 7, TodoWriteCommand{Title: "buy milk"})
	require.NoError(t, err)

	update := NewUpdateTodo(todos, validation.New(), slog.Default())

	_, err = update.Execute(context.Background(), 8, created.ID, TodoWriteCommand{Title: "steal milk"})
	assert.ErrorIs(t, err, domain.ErrTodoNotFound)

	got, err := update.Execute(context.Background(), 7, created.ID, TodoWriteCommand{Title: "buy oat milk", Completed: true})
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", got.Title)
	assert.True(t, got.Completed)
}

func TestUpdateTodo_Missing(t *testing.T) {
	update := NewUpdateTodo(newMockTodos(), validation.New(), slog.Default())
	_, err := update.Execute(context.Background(), 7, 42, TodoWriteCommand{Title: "whatever"})
	assert.ErrorIs(t, err, domain.ErrTodoNotFound)
}

func TestListTodos_OnlyOwn(t *testing.T) {
	todos := newMockTodos()
	todos.items[1] = domain.Todo{ID: 1, Owner: 7, Title: "mine"}
	todos.items[2] = domain.Todo{ID: 2, Owner: 8, Title: "theirs"}
	todos.nextID = 2

	list, err := NewListTodos(todos).Execute(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "mine", list[0].Title)
}

func TestListTodos_StorageError(t *testing.T) {
	todos := newMockTodos()
	todos.err = domain.ErrStorageUnavailable

	_, err := NewListTodos(todos).Execute(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestDeleteTodo_MissingIsNoop(t *testing.T) {
	todos := newMockTodos()
	assert.NoError(t, NewDeleteTodo(todos, slog.Default()).Execute(context.Background(), 7, 99))
}

func TestPurgeSessions(t *testing.T) {
	n, err := NewPurgeSessions(&mockBackend{count: 3}, slog.Default()).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = NewPurgeSessions(&mockBackend{err: errBoom}, slog.Default()).Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrSessionUnavailable)
	assert.ErrorIs(t, err, errBoom)
}
