package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"todo-web/internal/domain"

	"github.com/jackc/pgx/v5"
)

// TodoRepository implements domain.TodoRepository for PostgreSQL.
type TodoRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewTodoRepository creates a new PostgreSQL todo repository.
func NewTodoRepository(db DatabaseIface, logger *slog.Logger) *TodoRepository {
	return &TodoRepository{db: db, logger: logger.With("component", "todo_repository")}
}

// ListByOwner returns owner's todos ordered by ID.
func (r *TodoRepository) ListByOwner(ctx context.Context, owner int64) ([]domain.Todo, error) {
	query := `
		SELECT id, owner_id, title, completed, created_at, updated_at
		FROM todos
		WHERE owner_id = $1
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	todos := make([]domain.Todo, 0)
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.Owner, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return todos, nil
}

// Get loads one owned todo.
func (r *TodoRepository) Get(ctx context.Context, owner, id int64) (*domain.Todo, error) {
	query := `
		SELECT id, owner_id, title, completed, created_at, updated_at
		FROM todos
		WHERE id = $1 AND owner_id = $2`

	var t domain.Todo
	err := r.db.QueryRow(ctx, query, id, owner).
		Scan(&t.ID, &t.Owner, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return &t, nil
}

// Create inserts todo and fills in its ID and timestamps.
func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	query := `
		INSERT INTO todos (owner_id, title, completed)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, todo.Owner, todo.Title, todo.Completed).
		Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to create todo", "owner", todo.Owner, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Update overwrites title and completion of an owned todo.
func (r *TodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	query := `
		UPDATE todos
		SET title = $1, completed = $2, updated_at = now()
		WHERE id = $3 AND owner_id = $4
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query, todo.Title, todo.Completed, todo.ID, todo.Owner).
		Scan(&todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTodoNotFound
		}
		r.logger.ErrorContext(ctx, "failed to update todo", "id", todo.ID, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Delete removes an owned todo. Missing ids are ignored.
func (r *TodoRepository) Delete(ctx context.Context, owner, id int64) error {
	query := `DELETE FROM todos WHERE id = $1 AND owner_id = $2`

	tag, err := r.db.Exec(ctx, query, id, owner)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.DebugContext(ctx, "delete matched no todo", "id", id, "owner", owner)
	}
	return nil
}
