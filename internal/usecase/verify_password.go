package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"todo-web/internal/domain"
)

// VerifyPassword checks a username/password pair against the user store.
type VerifyPassword struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
	logger *slog.Logger
}

// NewVerifyPassword creates a new VerifyPassword usecase.
func NewVerifyPassword(users domain.UserRepository, hasher domain.PasswordHasher, l *slog.Logger) *VerifyPassword {
	return &VerifyPassword{users: users, hasher: hasher, logger: l}
}

// Execute returns the user when the password matches.
// Returns domain.ErrUserNotFound or domain.ErrPasswordMismatch otherwise.
func (uc *VerifyPassword) Execute(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := uc.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	ok, err := uc.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		uc.logger.ErrorContext(ctx, "stored password hash is unreadable", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domain.ErrPasswordMismatch
	}
	return user, nil
}
