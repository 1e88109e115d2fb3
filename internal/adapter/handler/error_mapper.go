package handler

import (
	"errors"
	"net/http"

	"todo-web/internal/domain"
	"todo-web/internal/validation"

	"github.com/labstack/echo/v4"
)

// mapDomainError converts a domain error into an appropriate echo.HTTPError.
// The original error stays reachable through errors.Is/As.
func mapDomainError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, "validation failed").SetInternal(err)

	case errors.Is(err, domain.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required").SetInternal(err)

	case errors.Is(err, domain.ErrAccessDenied):
		return echo.NewHTTPError(http.StatusForbidden, "access denied").SetInternal(err)

	case errors.Is(err, domain.ErrTodoNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "todo not found").SetInternal(err)

	case errors.Is(err, domain.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded").SetInternal(err)

	case errors.Is(err, domain.ErrSessionUnavailable),
		errors.Is(err, domain.ErrStorageUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "backing store unavailable").SetInternal(err)

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}

// messageCode picks the message bundle entry for an error response.
func messageCode(err error, status int) string {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return "error.bad_request"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "error.unauthenticated"
	case errors.Is(err, domain.ErrAccessDenied):
		return "error.access_denied"
	case errors.Is(err, domain.ErrTodoNotFound):
		return "error.todo_not_found"
	case errors.Is(err, domain.ErrRateLimited):
		return "error.rate_limited"
	}

	switch status {
	case http.StatusBadRequest:
		return "error.bad_request"
	case http.StatusUnauthorized:
		return "error.unauthenticated"
	case http.StatusForbidden:
		return "error.access_denied"
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return "error.not_found"
	case http.StatusTooManyRequests:
		return "error.rate_limited"
	default:
		return "error.internal"
	}
}
