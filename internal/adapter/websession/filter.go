package websession

import (
	"log/slog"
	"net/http"

	"todo-web/internal/domain"

	"github.com/labstack/echo/v4"
)

// Filter attaches a session Context to every request. It never rejects:
// a missing or unreadable cookie leaves the request anonymous.
func Filter(codec domain.SessionTokenCodec, cookieName string, logger *slog.Logger) echo.MiddlewareFunc {
	if cookieName == "" {
		cookieName = CookieName
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if _, ok := FromContext(req.Context()); ok {
				return next(c)
			}

			var sessionID string
			if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
				id, err := codec.Decode(cookie.Value)
				if err != nil {
					logger.DebugContext(req.Context(), "ignoring unreadable session cookie", "error", err)
				} else {
					sessionID = id
				}
			}

			sc := NewContext(sessionID, func(ck *http.Cookie) { c.SetCookie(ck) })
			c.SetRequest(req.WithContext(WithContext(req.Context(), sc)))
			return next(c)
		}
	}
}
