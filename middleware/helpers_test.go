package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"todo-web/internal/domain"
)

// stubSessions implements domain.SessionRepository for testing.
type stubSessions struct {
	session *domain.Session
	gets    int
}

func (s *stubSessions) Get(context.Context) (*domain.Session, bool) {
	s.gets++
	return s.session, s.session != nil
}

func (s *stubSessions) Set(_ context.Context, session *domain.Session) error {
	s.session = session
	return nil
}

func (s *stubSessions) Clear(context.Context) error {
	s.session = nil
	return nil
}

func sessionWith(roles ...domain.Role) *domain.Session {
	return &domain.Session{
		User:      domain.User{ID: 42, Username: "alice", Roles: roles},
		Roles:     roles,
		CreatedAt: time.Now(),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}
