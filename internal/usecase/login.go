package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"todo-web/internal/domain"
	"todo-web/internal/validation"
)

// LoginCommand carries the submitted login form.
type LoginCommand struct {
	Username string `form:"username" validate:"min=4,max=20"`
	Password string `form:"password"`
}

// Login verifies credentials, joins unknown users and binds the session.
type Login struct {
	validator *validation.Validator
	verify    *VerifyPassword
	join      *JoinUser
	sessions  domain.SessionRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewLogin creates a new Login usecase.
func NewLogin(v *validation.Validator, verify *VerifyPassword, join *JoinUser, sessions domain.SessionRepository, l *slog.Logger) *Login {
	return &Login{validator: v, verify: verify, join: join, sessions: sessions, logger: l, now: time.Now}
}

// Execute logs the user in.
// Returns *validation.Error for malformed input and domain.ErrPasswordMismatch
// for a known user with the wrong password. The session is untouched on error.
func (uc *Login) Execute(ctx context.Context, cmd LoginCommand) (*domain.User, error) {
	if err := uc.validator.Validate(cmd); err != nil {
		return nil, err
	}

	user, err := uc.verify.Execute(ctx, cmd.Username, cmd.Password)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = uc.join.Execute(ctx, cmd.Username, cmd.Password)
		if errors.Is(err, domain.ErrUserExists) {
			// lost a join race; the other request created the user
			user, err = uc.verify.Execute(ctx, cmd.Username, cmd.Password)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := uc.sessions.Set(ctx, domain.NewSession(*user, uc.now())); err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return user, nil
}
