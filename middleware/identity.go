package middleware

import (
	"todo-web/internal/domain"

	"github.com/labstack/echo/v4"
)

const sessionsKey = "todo_web.sessions"

// ProvideSessions makes the session repository available to CurrentUser
// and CurrentSession for the rest of the request.
func ProvideSessions(sessions domain.SessionRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(sessionsKey, sessions)
			return next(c)
		}
	}
}

// CurrentSession returns the session bound to the request, if any.
func CurrentSession(c echo.Context) (*domain.Session, bool) {
	sessions, ok := c.Get(sessionsKey).(domain.SessionRepository)
	if !ok {
		return nil, false
	}
	return sessions.Get(c.Request().Context())
}

// CurrentUser returns the logged-in user. Anonymous requests return false.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	s, ok := CurrentSession(c)
	if !ok {
		return nil, false
	}
	return &s.User, true
}
