package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

const executionTimeHeader = "X-Execution-Time"

// ExecutionTime measures how long the rest of the chain takes.
func ExecutionTime(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			c.Response().Before(func() {
				c.Response().Header().Set(executionTimeHeader, strconv.FormatInt(time.Since(start).Milliseconds(), 10)+"ms")
			})

			err := next(c)

			logger.DebugContext(c.Request().Context(), "handler execution time",
				"method", c.Request().Method,
				"route", c.Path(),
				"duration_ms", time.Since(start).Milliseconds())
			return err
		}
	}
}
