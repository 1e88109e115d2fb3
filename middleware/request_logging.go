package middleware

import (
	"log/slog"

	"todo-web/utils/logger"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestLogging logs one line per request. Health checks are skipped.
func RequestLogging(base *slog.Logger) echo.MiddlewareFunc {
	cl := logger.NewContextLogger(base)
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			rctx := c.Request().Context()
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"route", c.Path(),
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
			}
			if user, ok := CurrentUser(c); ok {
				attrs = append(attrs, "user_id", user.ID)
			}

			l := cl.WithContext(rctx)
			if v.Error == nil {
				l.InfoContext(rctx, "request completed", attrs...)
			} else {
				attrs = append(attrs, "error", v.Error.Error())
				l.ErrorContext(rctx, "request failed", attrs...)
			}
			return nil
		},
	})
}
