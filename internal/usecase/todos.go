package usecase

import (
	"context"
	"log/slog"

	"todo-web/internal/domain"
	"todo-web/internal/validation"
)

// TodoWriteCommand carries the editable fields of a todo.
type TodoWriteCommand struct {
	Title     string `json:"title" validate:"min=4,max=140"`
	Completed bool   `json:"completed"`
}

// ListTodos returns the todos owned by a user.
type ListTodos struct {
	todos domain.TodoRepository
}

// NewListTodos creates a new ListTodos usecase.
func NewListTodos(todos domain.TodoRepository) *ListTodos {
	return &ListTodos{todos: todos}
}

// Execute lists owner's todos ordered by id.
func (uc *ListTodos) Execute(ctx context.Context, owner int64) ([]domain.Todo, error) {
	return uc.todos.ListByOwner(ctx, owner)
}

// CreateTodo adds a todo for a user.
type CreateTodo struct {
	todos     domain.TodoRepository
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCreateTodo creates a new CreateTodo usecase.
func NewCreateTodo(todos domain.TodoRepository, v *validation.Validator, l *slog.Logger) *CreateTodo {
	return &CreateTodo{todos: todos, validator: v, logger: l}
}

// Execute validates cmd and stores a new, incomplete todo.
func (uc *CreateTodo) Execute(ctx context.Context, owner int64, cmd TodoWriteCommand) (*domain.Todo, error) {
	if err := uc.validator.Validate(cmd); err != nil {
		return nil, err
	}

	todo := &domain.Todo{Owner: owner, Title: cmd.Title}
	if err := uc.todos.Create(ctx, todo); err != nil {
		return nil, err
	}
	uc.logger.DebugContext(ctx, "todo created", "todo_id", todo.ID, "user_id", owner)
	return todo, nil
}

// UpdateTodo edits an existing todo.
type UpdateTodo struct {
	todos     domain.TodoRepository
	validator *validation.Validator
	logger    *slog.Logger
}

// NewUpdateTodo creates a new UpdateTodo usecase.
func NewUpdateTodo(todos domain.TodoRepository, v *validation.Validator, l *slog.Logger) *UpdateTodo {
	return &UpdateTodo{todos: todos, validator: v, logger: l}
}

// Execute overwrites title and completion.
// Returns domain.ErrTodoNotFound for unknown ids and ids owned by someone else.
func (uc *UpdateTodo) Execute(ctx context.Context, owner, id int64, cmd TodoWriteCommand) (*domain.Todo, error) {
	if err := uc.validator.Validate(cmd); err != nil {
		return nil, err
	}

	todo := &domain.Todo{ID: id, Owner: owner, Title: cmd.Title, Completed: cmd.Completed}
	if err := uc.todos.Update(ctx, todo); err != nil {
		return nil, err
	}
	uc.logger.DebugContext(ctx, "todo updated", "todo_id", id, "completed", cmd.Completed)
	return todo, nil
}

// DeleteTodo removes a todo.
type DeleteTodo struct {
	todos  domain.TodoRepository
	logger *slog.Logger
}

// NewDeleteTodo creates a new DeleteTodo usecase.
func NewDeleteTodo(todos domain.TodoRepository, l *slog.Logger) *DeleteTodo {
	return &DeleteTodo{todos: todos, logger: l}
}

// Execute deletes the todo. Deleting a missing id succeeds.
func (uc *DeleteTodo) Execute(ctx context.Context, owner, id int64) error {
	if err := uc.todos.Delete(ctx, owner, id); err != nil {
		return err
	}
	uc.logger.DebugContext(ctx, "todo deleted", "todo_id", id)
	return nil
}
