package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"todo-web/internal/domain"

	"github.com/labstack/echo/v4"
)

// Policy decides how a session's roles are matched against a requirement.
type Policy string

const (
	// MatchAny admits a session holding at least one required role.
	MatchAny Policy = "any"
	// MatchAll admits a session holding every required role.
	MatchAll Policy = "all"
)

// ParsePolicy parses ACCESS_ROLE_MATCH. Empty means MatchAny.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchAny:
		return MatchAny, nil
	case MatchAll:
		return MatchAll, nil
	default:
		return "", fmt.Errorf("unknown role match policy %q (want any or all)", s)
	}
}

// Satisfied reports whether session meets required under p.
func (p Policy) Satisfied(session *domain.Session, required []domain.Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		has := session.HasRole(r)
		if p == MatchAll && !has {
			return false
		}
		if p != MatchAll && has {
			return true
		}
	}
	return p == MatchAll
}

type routeKey struct {
	method string
	path   string
}

type groupEntry struct {
	prefix string
	roles  []domain.Role
}

// RoleTable maps routes to the roles they require. Route-level entries
// take precedence over group entries; among groups the longest prefix wins.
type RoleTable struct {
	routes map[routeKey][]domain.Role
	groups []groupEntry
}

// NewRoleTable creates an empty table. Every route is open until a rule is added.
func NewRoleTable() *RoleTable {
	return &RoleTable{routes: make(map[routeKey][]domain.Role)}
}

// Require sets the roles for one method and route pattern, such as
// "PUT /api/todos/:id". Calling it with no roles opens the route even
// when a group would protect it.
func (t *RoleTable) Require(method, path string, roles ...domain.Role) *RoleTable {
	t.routes[routeKey{method: strings.ToUpper(method), path: path}] = append([]domain.Role{}, roles...)
	return t
}

// RequireGroup sets the roles for every route under prefix.
func (t *RoleTable) RequireGroup(prefix string, roles ...domain.Role) *RoleTable {
	prefix = strings.TrimSuffix(prefix, "/")
	for i := range t.groups {
		if t.groups[i].prefix == prefix {
			t.groups[i].roles = append([]domain.Role{}, roles...)
			return t
		}
	}
	t.groups = append(t.groups, groupEntry{prefix: prefix, roles: append([]domain.Role{}, roles...)})
	sort.SliceStable(t.groups, func(i, j int) bool { return len(t.groups[i].prefix) > len(t.groups[j].prefix) })
	return t
}

// Lookup returns the requirement for a dispatched route.
func (t *RoleTable) Lookup(method, path string) ([]domain.Role, bool) {
	if roles, ok := t.routes[routeKey{method: method, path: path}]; ok {
		return roles, true
	}
	for _, g := range t.groups {
		if underPrefix(path, g.prefix) {
			return g.roles, true
		}
	}
	return nil, false
}

// underPrefix matches whole path segments, so "/api" covers "/api/todos"
// and "/api" but not "/apis".
func underPrefix(path, prefix string) bool {
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// AccessControl rejects requests whose session does not satisfy the
// route's requirement. It reads the table once per request and never
// modifies the session.
func AccessControl(table *RoleTable, sessions domain.SessionRepository, policy Policy, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			required, ok := table.Lookup(c.Request().Method, c.Path())
			if !ok || len(required) == 0 {
				return next(c)
			}

			ctx := c.Request().Context()
			session, found := sessions.Get(ctx)
			if !found {
				logger.DebugContext(ctx, "rejecting anonymous request", "route", c.Path())
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error()).SetInternal(domain.ErrUnauthenticated)
			}
			if !policy.Satisfied(session, required) {
				logger.InfoContext(ctx, "role requirement not met",
					"route", c.Path(),
					"user_id", session.User.ID,
					"required", required)
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrAccessDenied.Error()).SetInternal(domain.ErrAccessDenied)
			}
			return next(c)
		}
	}
}
