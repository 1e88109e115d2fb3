package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"todo-web/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// UserRepository implements domain.UserRepository for PostgreSQL.
type UserRepository struct {
	db     DatabaseIface
	logger *slog.Logger
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db DatabaseIface, logger *slog.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger.With("component", "user_repository")}
}

// FindByUsername loads a user by its unique name.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT id, username, password_hash, roles, created_at
		FROM users
		WHERE username = $1`

	var (
		u     domain.User
		roles []string
	)
	err := r.db.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &roles, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.ErrorContext(ctx, "failed to load user", "username", username, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	u.Roles = toRoles(roles)
	return &u, nil
}

// Create inserts user and fills in its ID and creation time.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, password_hash, roles)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, user.Username, user.PasswordHash, fromRoles(user.Roles)).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrUserExists
		}
		r.logger.ErrorContext(ctx, "failed to create user", "username", user.Username, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}

	r.logger.InfoContext(ctx, "user created", "user_id", user.ID, "username", user.Username)
	return nil
}

func toRoles(in []string) []domain.Role {
	out := make([]domain.Role, len(in))
	for i, r := range in {
		out[i] = domain.Role(r)
	}
	return out
}

func fromRoles(in []domain.Role) []string {
	out := make([]string, len(in))
	for i, r := range in {
		out[i] = string(r)
	}
	return out
}
