package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"todo-web/internal/domain"
)

// PurgeSessions drops every stored session, logging all users out.
type PurgeSessions struct {
	backend domain.SessionBackend
	logger  *slog.Logger
}

// NewPurgeSessions creates a new PurgeSessions usecase.
func NewPurgeSessions(backend domain.SessionBackend, l *slog.Logger) *PurgeSessions {
	return &PurgeSessions{backend: backend, logger: l}
}

// Execute returns the number of sessions removed.
func (uc *PurgeSessions) Execute(ctx context.Context) (int, error) {
	n, err := uc.backend.Purge(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrSessionUnavailable, err)
	}
	uc.logger.WarnContext(ctx, "all sessions purged", "count", n)
	return n, nil
}
