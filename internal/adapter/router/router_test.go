package router

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"todo-web/internal/adapter/handler"
	"todo-web/internal/adapter/view"
	"todo-web/internal/adapter/websession"
	"todo-web/internal/domain"
	"todo-web/internal/infrastructure/password"
	"todo-web/internal/infrastructure/repository/memory"
	"todo-web/internal/infrastructure/session"
	"todo-web/internal/infrastructure/token"
	"todo-web/internal/messages"
	"todo-web/internal/usecase"
	"todo-web/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret     = "0123456789abcdef0123456789abcdef"
	operatorSecret = "operator-secret"
)

// countingTodos records every repository call.
type countingTodos struct {
	domain.TodoRepository
	calls atomic.Int32
}

func (c *countingTodos) ListByOwner(ctx context.Context, owner int64) ([]domain.Todo, error) {
	c.calls.Add(1)
	return c.TodoRepository.ListByOwner(ctx, owner)
}

func (c *countingTodos) Create(ctx context.Context, t *domain.Todo) error {
	c.calls.Add(1)
	return c.TodoRepository.Create(ctx, t)
}

type testApp struct {
	e       *echo.Echo
	todos   *countingTodos
	backend *session.MemoryBackend
	codec   *token.JWTCodec
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend := session.NewMemoryBackend(time.Hour)
	t.Cleanup(func() { _ = backend.Close() })

	codec, err := token.NewJWTCodec(token.JWTConfig{Secret: testSecret, Issuer: "todo-web", TTL: time.Hour})
	require.NoError(t, err)

	hasher, err := password.NewArgon2(password.Config{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	require.NoError(t, err)

	users := memory.NewUserRepository()
	todos := &countingTodos{TodoRepository: memory.NewTodoRepository()}
	sessions := websession.NewRepository(backend, codec, websession.CookieConfig{}, logger)
	v := validation.New()
	msgs := messages.Default()

	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	verify := usecase.NewVerifyPassword(users, hasher, logger)
	join := usecase.NewJoinUser(users, hasher, logger)

	e := New(Config{
		Logger:             logger,
		Messages:           msgs,
		Renderer:           renderer,
		Sessions:           sessions,
		SessionFilter:      websession.Filter(codec, websession.CookieName, logger),
		InternalAuthSecret: operatorSecret,
		Login: handler.NewLoginHandler(
			usecase.NewLogin(v, verify, join, sessions, logger),
			usecase.NewLogout(sessions, logger),
			msgs, logger),
		Todos: handler.NewTodoHandler(handler.Todos{
			List:   usecase.NewListTodos(todos),
			Create: usecase.NewCreateTodo(todos, v, logger),
			Update: usecase.NewUpdateTodo(todos, v, logger),
			Delete: usecase.NewDeleteTodo(todos, logger),
		}, logger),
		Health:   handler.NewHealthHandler(nil),
		Internal: handler.NewInternalHandler(usecase.NewPurgeSessions(backend, logger), logger),
	})
	return &testApp{e: e, todos: todos, backend: backend, codec: codec}
}

func (a *testApp) do(t *testing.T, method, path string, body io.Reader, contentType string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T, username, pw string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {pw}}
	return a.do(t, http.MethodPost, "/login", strings.NewReader(form.Encode()), echo.MIMEApplicationForm)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == websession.CookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie in response", websession.CookieName)
	return nil
}

func TestLoginThenListTodos(t *testing.T) {
	app := newTestApp(t)

	rec := app.login(t, "alice", "secret")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/todos", rec.Header().Get(echo.HeaderLocation))
	ck := sessionCookie(t, rec)
	assert.True(t, ck.HttpOnly)

	rec = app.do(t, http.MethodGet, "/api/todos", nil, "", ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestReloginRotatesSessionCookie(t *testing.T) {
	app := newTestApp(t)
	first := sessionCookie(t, app.login(t, "alice", "secret"))

	form := url.Values{"username": {"alice"}, "password": {"secret"}}
	rec := app.do(t, http.MethodPost, "/login", strings.NewReader(form.Encode()), echo.MIMEApplicationForm, first)
	require.Equal(t, http.StatusFound, rec.Code)
	second := sessionCookie(t, rec)
	assert.NotEqual(t, first.Value, second.Value)

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/todos", nil, "", second).Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/api/todos", nil, "", first).Code)
}

func TestListTodosWithoutLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/todos", nil, "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, int32(0), app.todos.calls.Load(), "repository must not be reached")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(401), body["status"])
	assert.Equal(t, "Unauthorized", body["error"])
	assert.Equal(t, "/api/todos", body["path"])
	assert.Equal(t, messages.Default().Get("error.unauthenticated"), body["message"])
	assert.Contains(t, body, "timestamp")
}

func TestCorruptCookieIsAnonymous(t *testing.T) {
	app := newTestApp(t)
	bad := &http.Cookie{Name: websession.CookieName, Value: "garbage.token.value"}

	rec := app.do(t, http.MethodGet, "/todos", nil, "", bad)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/login"`)

	rec = app.do(t, http.MethodGet, "/api/todos", nil, "", bad)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestForgedCookieIsAnonymous(t *testing.T) {
	app := newTestApp(t)
	other, err := token.NewJWTCodec(token.JWTConfig{Secret: strings.Repeat("x", 32), Issuer: "todo-web", TTL: time.Hour})
	require.NoError(t, err)
	forged, err := other.Encode("someone-else")
	require.NoError(t, err)

	rec := app.do(t, http.MethodGet, "/api/todos", nil, "", &http.Cookie{Name: websession.CookieName, Value: forged})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWrongPasswordStaysAnonymous(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, http.StatusFound, app.login(t, "alice", "secret").Code)

	rec := app.login(t, "alice", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), messages.Default().Get("login.password_mismatch"))
	for _, ck := range rec.Result().Cookies() {
		assert.NotEqual(t, websession.CookieName, ck.Name, "no session may be issued")
	}
}

func TestInvalidLoginInput(t *testing.T) {
	app := newTestApp(t)

	rec := app.login(t, "abc", "pw")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), messages.Default().Get("login.invalid"))
	assert.Contains(t, rec.Body.String(), "at least 4 characters")
	assert.Empty(t, rec.Result().Cookies())
}

func TestTodoLifecycle(t *testing.T) {
	app := newTestApp(t)
	ck := sessionCookie(t, app.login(t, "alice", "secret"))

	rec := app.do(t, http.MethodPost, "/api/todos", strings.NewReader(`{"title":"buy milk"}`), echo.MIMEApplicationJSON, ck)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "buy milk", created.Title)

	path := "/api/todos/" + jsonID(created.ID)
	rec = app.do(t, http.MethodPut, path, strings.NewReader(`{"title":"buy oat milk","completed":true}`), echo.MIMEApplicationJSON, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"completed":true`)

	rec = app.do(t, http.MethodGet, "/api/todos.csv", nil, "", ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/csv"))
	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"id", "title", "completed", "createdAt"}, rows[0])
	assert.Equal(t, "buy oat milk", rows[1][1])
	assert.Equal(t, "true", rows[1][2])

	rec = app.do(t, http.MethodDelete, path, nil, "", ck)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(t, http.MethodDelete, path, nil, "", ck)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(t, http.MethodPut, path, strings.NewReader(`{"title":"gone already"}`), echo.MIMEApplicationJSON, ck)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTodoValidationError(t *testing.T) {
	app := newTestApp(t)
	ck := sessionCookie(t, app.login(t, "alice", "secret"))

	rec := app.do(t, http.MethodPost, "/api/todos", strings.NewReader(`{"title":"no"}`), echo.MIMEApplicationJSON, ck)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors []struct {
			Field string `json:"field"`
			Code  string `json:"code"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "title", body.Errors[0].Field)
	assert.Equal(t, "validation.size.min", body.Errors[0].Code)
}

func TestTodosAreOwnerScoped(t *testing.T) {
	app := newTestApp(t)
	alice := sessionCookie(t, app.login(t, "alice", "secret"))
	bob := sessionCookie(t, app.login(t, "bobby", "hunter2"))

	rec := app.do(t, http.MethodPost, "/api/todos", strings.NewReader(`{"title":"alice only"}`), echo.MIMEApplicationJSON, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = app.do(t, http.MethodGet, "/api/todos", nil, "", bob)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = app.do(t, http.MethodPut, "/api/todos/"+jsonID(created.ID), strings.NewReader(`{"title":"bob was here"}`), echo.MIMEApplicationJSON, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	ck := sessionCookie(t, app.login(t, "alice", "secret"))

	rec := app.do(t, http.MethodGet, "/logout", nil, "", ck)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/todos", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, -1, sessionCookie(t, rec).MaxAge)

	rec = app.do(t, http.MethodGet, "/api/todos", nil, "", ck)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "old cookie no longer resolves")

	rec = app.do(t, http.MethodGet, "/logout", nil, "")
	assert.Equal(t, http.StatusFound, rec.Code, "anonymous logout is a no-op")
}

func TestTodosPage(t *testing.T) {
	app := newTestApp(t)
	ck := sessionCookie(t, app.login(t, "alice", "secret"))
	app.do(t, http.MethodPost, "/api/todos", strings.NewReader(`{"title":"water plants"}`), echo.MIMEApplicationJSON, ck)

	rec := app.do(t, http.MethodGet, "/todos", nil, "", ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")
	assert.Contains(t, rec.Body.String(), "water plants")
	assert.NotEmpty(t, rec.Header().Get("X-Execution-Time"))
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestNotFoundRendersErrorPage(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), messages.Default().Get("error.not_found"))
}

func TestPurgeSessions(t *testing.T) {
	app := newTestApp(t)
	ck := sessionCookie(t, app.login(t, "alice", "secret"))

	req := httptest.NewRequest(http.MethodDelete, "/internal/sessions", nil)
	rec := httptest.NewRecorder()
	app.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/internal/sessions", nil)
	req.Header.Set("X-Internal-Auth", operatorSecret)
	rec = httptest.NewRecorder()
	app.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"purged":1}`, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/todos", nil, "", ck)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutesCovered(t *testing.T) {
	roles := DefaultRoles()
	for _, path := range []string{"/api/todos", "/api/todos/:id", "/api/todos.csv"} {
		got, ok := roles.Lookup(http.MethodGet, path)
		require.True(t, ok, path)
		assert.Equal(t, []domain.Role{domain.RoleUser}, got)
	}
	_, ok := roles.Lookup(http.MethodGet, "/todos")
	assert.False(t, ok)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
