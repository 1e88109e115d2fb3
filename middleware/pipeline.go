package middleware

import (
	"log/slog"

	"todo-web/internal/domain"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

// Stage is one named step of the request pipeline.
type Stage struct {
	Name       string
	Middleware echo.MiddlewareFunc
}

// PipelineConfig holds everything the request pipeline depends on.
type PipelineConfig struct {
	Security SecurityHeadersConfig
	// Tracing enables otelecho spans under ServiceName.
	Tracing     bool
	ServiceName string
	// SessionFilter attaches the per-request session context.
	SessionFilter echo.MiddlewareFunc
	Sessions      domain.SessionRepository
	Roles         *RoleTable
	Policy        Policy
	Logger        *slog.Logger
}

// Pipeline returns the request stages in execution order. The session
// filter always precedes the interceptors; access control runs last so
// rejected requests are still timed and logged.
func Pipeline(cfg PipelineConfig) []Stage {
	stages := []Stage{
		{Name: "security-headers", Middleware: SecurityHeaders(cfg.Security)},
	}
	if cfg.Tracing {
		stages = append(stages,
			Stage{Name: "otel", Middleware: otelecho.Middleware(cfg.ServiceName)},
			Stage{Name: "otel-status", Middleware: OTelStatusMiddleware()},
		)
	}
	stages = append(stages,
		Stage{Name: "recover", Middleware: echomw.Recover()},
		Stage{Name: "request-id", Middleware: RequestID()},
		Stage{Name: "session-filter", Middleware: cfg.SessionFilter},
		Stage{Name: "session-provider", Middleware: ProvideSessions(cfg.Sessions)},
		Stage{Name: "execution-time", Middleware: ExecutionTime(cfg.Logger)},
		Stage{Name: "request-logging", Middleware: RequestLogging(cfg.Logger)},
		Stage{Name: "access-control", Middleware: AccessControl(cfg.Roles, cfg.Sessions, cfg.Policy, cfg.Logger)},
	)
	return stages
}

// Install registers stages on e in order.
func Install(e *echo.Echo, stages []Stage) {
	for _, s := range stages {
		if s.Middleware == nil {
			continue
		}
		e.Use(s.Middleware)
	}
}

// StageNames lists the stage order, for logging at startup.
func StageNames(stages []Stage) []string {
	names := make([]string, 0, len(stages))
	for _, s := range stages {
		names = append(names, s.Name)
	}
	return names
}
