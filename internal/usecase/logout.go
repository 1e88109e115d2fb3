package usecase

import (
	"context"
	"log/slog"

	"todo-web/internal/domain"
)

// Logout clears the current session binding.
type Logout struct {
	sessions domain.SessionRepository
	logger   *slog.Logger
}

// NewLogout creates a new Logout usecase.
func NewLogout(sessions domain.SessionRepository, l *slog.Logger) *Logout {
	return &Logout{sessions: sessions, logger: l}
}

// Execute clears the session. Logging out anonymously is a no-op.
func (uc *Logout) Execute(ctx context.Context) error {
	current, ok := uc.sessions.Get(ctx)
	if err := uc.sessions.Clear(ctx); err != nil {
		return err
	}
	if ok {
		uc.logger.InfoContext(ctx, "user logged out", "user_id", current.User.ID)
	}
	return nil
}
