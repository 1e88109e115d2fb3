package middleware

import (
	"crypto/subtle"
	"net/http"

	"todo-web/internal/domain"

	"github.com/labstack/echo/v4"
)

const internalAuthHeader = "X-Internal-Auth"

// InternalAuth guards operator endpoints with a shared secret.
// An empty secret rejects every request.
func InternalAuth(sharedSecret string) echo.MiddlewareFunc {
	secretBytes := []byte(sharedSecret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			provided := []byte(c.Request().Header.Get(internalAuthHeader))
			if len(provided) == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing internal auth header").SetInternal(domain.ErrUnauthenticated)
			}
			if len(secretBytes) == 0 || subtle.ConstantTimeCompare(provided, secretBytes) != 1 {
				return echo.NewHTTPError(http.StatusForbidden, "invalid internal auth").SetInternal(domain.ErrAccessDenied)
			}
			return next(c)
		}
	}
}
