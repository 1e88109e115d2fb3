package websession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"todo-web/internal/domain"

	"github.com/google/uuid"
)

// CookieName is the name of the session cookie.
const CookieName = "todo_session"

// CookieConfig controls how the session cookie is written.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Repository is the request-scoped session store.
// Implements domain.SessionRepository.
type Repository struct {
	backend domain.SessionBackend
	codec   domain.SessionTokenCodec
	cookie  CookieConfig
	logger  *slog.Logger
}

// NewRepository creates a session repository over backend.
func NewRepository(backend domain.SessionBackend, codec domain.SessionTokenCodec, cookie CookieConfig, logger *slog.Logger) *Repository {
	if cookie.Name == "" {
		cookie.Name = CookieName
	}
	return &Repository{backend: backend, codec: codec, cookie: cookie, logger: logger}
}

// Get returns the session bound to the current request.
func (r *Repository) Get(ctx context.Context) (*domain.Session, bool) {
	sc, ok := FromContext(ctx)
	if !ok {
		return nil, false
	}
	if sc.loaded {
		return copySession(sc.memo), sc.memo != nil
	}
	sc.loaded = true
	if sc.sessionID == "" {
		return nil, false
	}

	s, err := r.backend.Load(ctx, sc.sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			r.logger.WarnContext(ctx, "session backend load failed, treating request as anonymous", "error", err)
		}
		return nil, false
	}
	sc.memo = s
	return copySession(s), true
}

// Set binds session to the current request under a newly minted session id
// and writes a fresh cookie. Any prior id is deleted, so every login gets a
// full TTL and a session id the client did not choose.
func (r *Repository) Set(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return errors.New("websession: nil session")
	}
	sc, ok := FromContext(ctx)
	if !ok {
		return domain.ErrNoSessionContext
	}

	sessionID := uuid.NewString()
	if err := r.backend.Save(ctx, sessionID, session); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSessionUnavailable, err)
	}

	token, err := r.codec.Encode(sessionID)
	if err != nil {
		_ = r.backend.Delete(ctx, sessionID)
		return fmt.Errorf("encode session token: %w", err)
	}

	if previous := sc.sessionID; previous != "" {
		if err := r.backend.Delete(ctx, previous); err != nil {
			r.logger.WarnContext(ctx, "failed to delete rotated session", "error", err)
		}
	}

	sc.setCookie(r.newCookie(token, int(r.codec.TTL().Seconds())))
	sc.sessionID = sessionID
	sc.memo = copySession(session)
	sc.loaded = true
	return nil
}

// Clear removes the binding for the current request and expires the cookie.
func (r *Repository) Clear(ctx context.Context) error {
	sc, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	if sc.sessionID != "" {
		if err := r.backend.Delete(ctx, sc.sessionID); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrSessionUnavailable, err)
		}
		sc.setCookie(r.newCookie("", -1))
		sc.sessionID = ""
	}
	sc.memo = nil
	sc.loaded = true
	return nil
}

func (r *Repository) newCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     r.cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
