package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"todo-web/internal/domain"
)

// JoinUser registers a new user with the default role.
type JoinUser struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
	logger *slog.Logger
	now    func() time.Time
}

// NewJoinUser creates a new JoinUser usecase.
func NewJoinUser(users domain.UserRepository, hasher domain.PasswordHasher, l *slog.Logger) *JoinUser {
	return &JoinUser{users: users, hasher: hasher, logger: l, now: time.Now}
}

// Execute creates the user. Returns domain.ErrUserExists if the name is taken.
func (uc *JoinUser) Execute(ctx context.Context, username, password string) (*domain.User, error) {
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleUser},
		CreatedAt:    uc.now(),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "user joined", "user_id", user.ID, "username", user.Username)
	return user, nil
}
