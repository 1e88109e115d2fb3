package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"todo-web/internal/adapter/view"
	"todo-web/internal/messages"
	"todo-web/internal/validation"

	"github.com/labstack/echo/v4"
)

// errorPayload is the JSON body of every API error response.
type errorPayload struct {
	Timestamp time.Time      `json:"timestamp"`
	Status    int            `json:"status"`
	Error     string         `json:"error"`
	Message   string         `json:"message"`
	Path      string         `json:"path"`
	Errors    []fieldPayload `json:"errors,omitempty"`
}

type fieldPayload struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorHandler renders errors as JSON for API clients and as an HTML
// page for browsers, with readable text from the message bundle.
func NewErrorHandler(msgs *messages.Source, logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		he := mapDomainError(err)
		status := he.Code
		req := c.Request()

		if status >= http.StatusInternalServerError {
			logger.ErrorContext(req.Context(), "request error", "path", req.URL.Path, "status", status, "error", err)
		}

		payload := errorPayload{
			Timestamp: time.Now().UTC(),
			Status:    status,
			Error:     http.StatusText(status),
			Message:   msgs.Get(messageCode(err, status)),
			Path:      req.URL.Path,
		}
		var verr *validation.Error
		if errors.As(err, &verr) {
			for _, f := range verr.Fields {
				payload.Errors = append(payload.Errors, fieldPayload{
					Field:   f.Field,
					Code:    f.Code,
					Message: msgs.Field(f.Code, f.Field, f.Param),
				})
			}
		}

		var writeErr error
		switch {
		case req.Method == http.MethodHead:
			writeErr = c.NoContent(status)
		case wantsJSON(c):
			writeErr = c.JSON(status, payload)
		default:
			writeErr = c.Render(status, view.ErrorPage, view.ErrorData{
				Status:  status,
				Error:   payload.Error,
				Message: payload.Message,
				Path:    payload.Path,
			})
			if writeErr != nil && !c.Response().Committed {
				writeErr = c.String(status, payload.Message)
			}
		}
		if writeErr != nil {
			logger.ErrorContext(req.Context(), "failed to write error response", "error", writeErr)
		}
	}
}

func wantsJSON(c echo.Context) bool {
	path := c.Request().URL.Path
	if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/internal/") {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
