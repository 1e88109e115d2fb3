package handler

import (
	"log/slog"
	"net/http"

	"todo-web/internal/usecase"

	"github.com/labstack/echo/v4"
)

// InternalHandler serves operator endpoints.
type InternalHandler struct {
	purge  *usecase.PurgeSessions
	logger *slog.Logger
}

// NewInternalHandler creates a new internal handler.
func NewInternalHandler(purge *usecase.PurgeSessions, logger *slog.Logger) *InternalHandler {
	return &InternalHandler{purge: purge, logger: logger}
}

type purgeResponse struct {
	Purged int `json:"purged"`
}

// PurgeSessions handles DELETE /internal/sessions.
func (h *InternalHandler) PurgeSessions(c echo.Context) error {
	ctx := c.Request().Context()

	n, err := h.purge.Execute(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to purge sessions", "error", err, "remote_addr", c.RealIP())
		return mapDomainError(err)
	}

	h.logger.InfoContext(ctx, "sessions purged by operator", "count", n, "remote_addr", c.RealIP())
	return c.JSON(http.StatusOK, purgeResponse{Purged: n})
}
