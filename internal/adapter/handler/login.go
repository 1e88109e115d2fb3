package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"todo-web/internal/adapter/view"
	"todo-web/internal/domain"
	"todo-web/internal/messages"
	"todo-web/internal/usecase"
	"todo-web/internal/validation"

	"github.com/labstack/echo/v4"
)

// LoginHandler serves the login form and the login/logout actions.
type LoginHandler struct {
	login  *usecase.Login
	logout *usecase.Logout
	msgs   *messages.Source
	logger *slog.Logger
}

// NewLoginHandler creates a new login handler.
func NewLoginHandler(login *usecase.Login, logout *usecase.Logout, msgs *messages.Source, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{login: login, logout: logout, msgs: msgs, logger: logger}
}

// Form renders GET /login.
func (h *LoginHandler) Form(c echo.Context) error {
	return c.Render(http.StatusOK, view.LoginPage, view.LoginData{})
}

// Submit processes POST /login.
func (h *LoginHandler) Submit(c echo.Context) error {
	var cmd usecase.LoginCommand
	if err := c.Bind(&cmd); err != nil {
		return err
	}

	_, err := h.login.Execute(c.Request().Context(), cmd)
	if err == nil {
		return c.Redirect(http.StatusFound, "/todos")
	}

	data := view.LoginData{Username: cmd.Username}
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		data.Message = h.msgs.Get("login.invalid")
		codes := verr.FieldCodes()
		data.FieldErrors = make(map[string]string, len(codes))
		for field, f := range codes {
			data.FieldErrors[field] = h.msgs.Field(f.Code, field, f.Param)
		}
		return c.Render(http.StatusBadRequest, view.LoginPage, data)

	case errors.Is(err, domain.ErrPasswordMismatch):
		data.Message = h.msgs.Get("login.password_mismatch")
		return c.Render(http.StatusUnauthorized, view.LoginPage, data)

	default:
		return mapDomainError(err)
	}
}

// Logout processes GET /logout.
func (h *LoginHandler) Logout(c echo.Context) error {
	if err := h.logout.Execute(c.Request().Context()); err != nil {
		return mapDomainError(err)
	}
	return c.Redirect(http.StatusFound, "/todos")
}
