package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"todo-web/internal/adapter/view"
	"todo-web/internal/domain"
	"todo-web/internal/usecase"
	"todo-web/middleware"

	"github.com/labstack/echo/v4"
)

// Todos bundles the todo usecases for the handlers.
type Todos struct {
	List   *usecase.ListTodos
	Create *usecase.CreateTodo
	Update *usecase.UpdateTodo
	Delete *usecase.DeleteTodo
}

// TodoHandler serves the todo page and the /api/todos resource.
type TodoHandler struct {
	uc     Todos
	logger *slog.Logger
}

// NewTodoHandler creates a new todo handler.
func NewTodoHandler(uc Todos, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{uc: uc, logger: logger}
}

// Page renders GET /todos. Anonymous visitors get a sign-in link.
func (h *TodoHandler) Page(c echo.Context) error {
	data := view.TodosData{}
	if user, ok := middleware.CurrentUser(c); ok {
		todos, err := h.uc.List.Execute(c.Request().Context(), user.ID)
		if err != nil {
			return mapDomainError(err)
		}
		data.User = user
		data.Todos = todos
	}
	return c.Render(http.StatusOK, view.TodosPage, data)
}

// List handles GET /api/todos.
func (h *TodoHandler) List(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	todos, err := h.uc.List.Execute(c.Request().Context(), user.ID)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, todos)
}

// Create handles POST /api/todos.
func (h *TodoHandler) Create(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var cmd usecase.TodoWriteCommand
	if err := c.Bind(&cmd); err != nil {
		return err
	}
	todo, err := h.uc.Create.Execute(c.Request().Context(), user.ID, cmd)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusCreated, todo)
}

// Update handles PUT /api/todos/:id.
func (h *TodoHandler) Update(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := todoID(c)
	if err != nil {
		return err
	}
	var cmd usecase.TodoWriteCommand
	if err := c.Bind(&cmd); err != nil {
		return err
	}
	todo, err := h.uc.Update.Execute(c.Request().Context(), user.ID, id, cmd)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, todo)
}

// Delete handles DELETE /api/todos/:id.
func (h *TodoHandler) Delete(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := todoID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete.Execute(c.Request().Context(), user.ID, id); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ExportCSV handles GET /api/todos.csv.
func (h *TodoHandler) ExportCSV(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	todos, err := h.uc.List.Execute(c.Request().Context(), user.ID)
	if err != nil {
		return mapDomainError(err)
	}

	// Encode fully before writing so a failure can still become an error response.
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "title", "completed", "createdAt"})
	for _, t := range todos {
		_ = w.Write([]string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			strconv.FormatBool(t.Completed),
			t.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode csv export: %w", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="todos.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// requireUser resolves the current user. The access-control stage
// normally rejects anonymous requests before this runs.
func requireUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, mapDomainError(domain.ErrUnauthenticated)
	}
	return user, nil
}

func todoID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid todo id")
	}
	return id, nil
}
