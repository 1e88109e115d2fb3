// Package websession binds the session store to the current HTTP request.
//
// The Filter decodes the session cookie once per request and attaches a
// Context to the request context. The Repository resolves every
// Get/Set/Clear against that Context, so callers never handle tokens.
package websession

import (
	"context"
	"net/http"

	"todo-web/internal/domain"
)

type contextKey struct{}

// Context is the per-request session state.
type Context struct {
	sessionID string
	loaded    bool
	memo      *domain.Session
	setCookie func(*http.Cookie)
}

// NewContext creates a session context for sessionID. An empty id means
// the request arrived without a usable session cookie.
func NewContext(sessionID string, setCookie func(*http.Cookie)) *Context {
	if setCookie == nil {
		setCookie = func(*http.Cookie) {}
	}
	return &Context{sessionID: sessionID, setCookie: setCookie}
}

// SessionID returns the session id bound to the request, if any.
func (sc *Context) SessionID() string {
	return sc.sessionID
}

// WithContext attaches sc to ctx.
func WithContext(ctx context.Context, sc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, sc)
}

// FromContext returns the session context attached by the Filter.
func FromContext(ctx context.Context) (*Context, bool) {
	sc, ok := ctx.Value(contextKey{}).(*Context)
	return sc, ok && sc != nil
}

func copySession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Roles = append([]domain.Role(nil), s.Roles...)
	out.User.Roles = append([]domain.Role(nil), s.User.Roles...)
	return &out
}
