package router

import (
	"log/slog"
	"net/http"

	"todo-web/internal/adapter/handler"
	"todo-web/internal/domain"
	"todo-web/internal/messages"
	"todo-web/middleware"

	"github.com/labstack/echo/v4"
)

// Config holds everything needed to assemble the HTTP server.
type Config struct {
	Logger   *slog.Logger
	Messages *messages.Source
	Renderer echo.Renderer

	Sessions      domain.SessionRepository
	SessionFilter echo.MiddlewareFunc
	Roles         *middleware.RoleTable
	Policy        middleware.Policy

	Security    middleware.SecurityHeadersConfig
	Tracing     bool
	ServiceName string

	// LoginLimiter throttles POST /login. Nil disables it.
	LoginLimiter *middleware.RateLimiter
	// InternalAuthSecret enables /internal routes when set.
	InternalAuthSecret string

	Login    *handler.LoginHandler
	Todos    *handler.TodoHandler
	Health   *handler.HealthHandler
	Internal *handler.InternalHandler
}

// DefaultRoles protects the whole REST API for signed-in users.
func DefaultRoles() *middleware.RoleTable {
	return middleware.NewRoleTable().RequireGroup("/api", domain.RoleUser)
}

// New creates and configures the Echo server.
func New(cfg Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = cfg.Renderer
	e.HTTPErrorHandler = handler.NewErrorHandler(cfg.Messages, cfg.Logger)

	roles := cfg.Roles
	if roles == nil {
		roles = DefaultRoles()
	}

	stages := middleware.Pipeline(middleware.PipelineConfig{
		Security:      cfg.Security,
		Tracing:       cfg.Tracing,
		ServiceName:   cfg.ServiceName,
		SessionFilter: cfg.SessionFilter,
		Sessions:      cfg.Sessions,
		Roles:         roles,
		Policy:        cfg.Policy,
		Logger:        cfg.Logger,
	})
	middleware.Install(e, stages)
	cfg.Logger.Debug("request pipeline installed", "stages", middleware.StageNames(stages))

	// Web
	e.GET("/", func(c echo.Context) error { return c.Redirect(http.StatusFound, "/todos") })
	e.GET("/login", cfg.Login.Form)
	if cfg.LoginLimiter != nil {
		e.POST("/login", cfg.Login.Submit, cfg.LoginLimiter.Middleware())
	} else {
		e.POST("/login", cfg.Login.Submit)
	}
	e.GET("/logout", cfg.Login.Logout)
	e.GET("/todos", cfg.Todos.Page)
	e.GET("/health", cfg.Health.Handle)

	// REST API
	api := e.Group("/api/todos")
	api.GET("", cfg.Todos.List)
	api.POST("", cfg.Todos.Create)
	api.PUT("/:id", cfg.Todos.Update)
	api.DELETE("/:id", cfg.Todos.Delete)
	e.GET("/api/todos.csv", cfg.Todos.ExportCSV)

	// Internal routes (protected by shared secret)
	if cfg.InternalAuthSecret != "" && cfg.Internal != nil {
		internal := e.Group("/internal", middleware.InternalAuth(cfg.InternalAuthSecret))
		internal.DELETE("/sessions", cfg.Internal.PurgeSessions)
	}

	return e
}
