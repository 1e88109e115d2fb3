package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-web/config"
	"todo-web/internal/adapter/handler"
	"todo-web/internal/adapter/router"
	"todo-web/internal/adapter/view"
	"todo-web/internal/adapter/websession"
	"todo-web/internal/domain"
	"todo-web/internal/infrastructure/password"
	"todo-web/internal/infrastructure/repository/memory"
	"todo-web/internal/infrastructure/repository/postgres"
	"todo-web/internal/infrastructure/session"
	"todo-web/internal/infrastructure/token"
	"todo-web/internal/messages"
	"todo-web/internal/usecase"
	"todo-web/internal/validation"
	appmiddleware "todo-web/middleware"
	"todo-web/utils/logger"
	"todo-web/utils/otel"

	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	log := logger.Init(otelCfg.Enabled)

	cfg, err := config.Load()
	if err != nil {
		log.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	log.InfoContext(ctx, "configuration loaded",
		"port", cfg.Port,
		"session_ttl", cfg.SessionTTL,
		"redis", cfg.RedisURL != "",
		"postgres", cfg.DatabaseURL != "",
		"access_role_match", cfg.AccessRoleMatch)

	policy, err := appmiddleware.ParsePolicy(cfg.AccessRoleMatch)
	if err != nil {
		log.ErrorContext(ctx, "invalid access policy", "error", err)
		os.Exit(1)
	}

	// Infrastructure
	var closers []io.Closer
	checks := map[string]handler.HealthCheck{}

	var backend domain.SessionBackend
	if cfg.RedisURL != "" {
		rb, err := session.DialRedis(ctx, cfg.RedisURL, cfg.SessionTTL, log)
		if err != nil {
			log.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		backend = rb
		closers = append(closers, rb)
		checks["redis"] = rb.Ping
	} else {
		mb := session.NewMemoryBackend(cfg.SessionTTL)
		backend = mb
		closers = append(closers, mb)
	}

	var (
		users domain.UserRepository
		todos domain.TodoRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL, log)
		if err != nil {
			log.ErrorContext(ctx, "failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.ErrorContext(ctx, "failed to prepare schema", "error", err)
			os.Exit(1)
		}
		users = postgres.NewUserRepository(pool, log)
		todos = postgres.NewTodoRepository(pool, log)
		closers = append(closers, closerFunc(pool.Close))
		checks["postgres"] = pool.Ping
	} else {
		users = memory.NewUserRepository()
		todos = memory.NewTodoRepository()
	}

	codec, err := token.NewJWTCodec(token.JWTConfig{
		Secret: cfg.SessionSecret,
		Issuer: otelCfg.ServiceName,
		TTL:    cfg.SessionTTL,
	})
	if err != nil {
		log.ErrorContext(ctx, "failed to create session codec", "error", err)
		os.Exit(1)
	}
	hasher, err := password.NewArgon2(password.DefaultConfig())
	if err != nil {
		log.ErrorContext(ctx, "failed to create password hasher", "error", err)
		os.Exit(1)
	}
	renderer, err := view.NewRenderer()
	if err != nil {
		log.ErrorContext(ctx, "failed to parse templates", "error", err)
		os.Exit(1)
	}

	v := validation.New()
	msgs := messages.Default()
	cookie := websession.CookieConfig{Name: websession.CookieName, Secure: cfg.SessionCookieSecure}
	sessions := websession.NewRepository(backend, codec, cookie, log)

	// Usecases
	verifyUC := usecase.NewVerifyPassword(users, hasher, log)
	joinUC := usecase.NewJoinUser(users, hasher, log)
	loginUC := usecase.NewLogin(v, verifyUC, joinUC, sessions, log)
	logoutUC := usecase.NewLogout(sessions, log)
	purgeUC := usecase.NewPurgeSessions(backend, log)

	var loginLimiter *appmiddleware.RateLimiter
	if cfg.LoginRatePerMin > 0 {
		loginLimiter = appmiddleware.PerMinute(cfg.LoginRatePerMin)
		defer loginLimiter.Close()
	}

	e := router.New(router.Config{
		Logger:        log,
		Messages:      msgs,
		Renderer:      renderer,
		Sessions:      sessions,
		SessionFilter: websession.Filter(codec, cookie.Name, log),
		Roles:         router.DefaultRoles(),
		Policy:        policy,
		Security: appmiddleware.SecurityHeadersConfig{
			HSTS:      cfg.SessionCookieSecure,
			APIPrefix: "/api/",
		},
		Tracing:            otelCfg.Enabled,
		ServiceName:        otelCfg.ServiceName,
		LoginLimiter:       loginLimiter,
		InternalAuthSecret: cfg.InternalAuthSecret,
		Login:              handler.NewLoginHandler(loginUC, logoutUC, msgs, log),
		Todos: handler.NewTodoHandler(handler.Todos{
			List:   usecase.NewListTodos(todos),
			Create: usecase.NewCreateTodo(todos, v, log),
			Update: usecase.NewUpdateTodo(todos, v, log),
			Delete: usecase.NewDeleteTodo(todos, log),
		}, log),
		Health:   handler.NewHealthHandler(checks),
		Internal: handler.NewInternalHandler(purgeUC, log),
	})

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	log.InfoContext(ctx, "starting todo-web server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := e.Shutdown(shutdownCtx)
		for _, c := range closers {
			if cerr := c.Close(); cerr != nil {
				log.Warn("failed to close resource", "error", cerr)
			}
		}
		return err
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server exited properly")
}

// closerFunc adapts a Close method without an error result.
type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
