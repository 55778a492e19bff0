// Package guard decides whether a navigation target may be entered given
// the current session snapshot. Checks are synchronous and never touch the
// network; they rely on the last-known session state.
package guard

import (
	"github.com/towerops/toweradmin/internal/client/session"
	"github.com/towerops/toweradmin/internal/core/domain"
)

const (
	// LoginPath is the only route reachable without a session.
	LoginPath = "/login"
	// DefaultPath is where under-privileged users are sent.
	DefaultPath = "/dashboard"
)

// Route describes one entry of the static route table.
type Route struct {
	Path  string
	Title string
	// MinRole is the least role allowed to enter, empty means any
	// authenticated user.
	MinRole string
}

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Guard holds the route table.
type Guard struct {
	routes map[string]Route
}

// New builds a guard over the given routes. The login route is always known
// even when absent from the table.
func New(routes []Route) *Guard {
	m := make(map[string]Route, len(routes))
	for _, r := range routes {
		m[r.Path] = r
	}
	return &Guard{routes: m}
}

// DefaultRoutes is the admin application's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/dashboard", Title: "Dashboard"},
		{Path: "/instances", Title: "Instances"},
		{Path: "/credentials", Title: "Credentials"},
		{Path: "/environments", Title: "Execution Environments"},
		{Path: "/credential-types", Title: "Credential Types"},
		{Path: "/audit-logs", Title: "Audit Logs"},
		{Path: "/users", Title: "Users", MinRole: domain.RoleAdmin},
		{Path: "/config", Title: "Settings", MinRole: domain.RoleAdmin},
	}
}

// Check evaluates whether the session may enter path.
//
// Unauthenticated sessions are redirected to the login view for any other
// destination. Authenticated sessions lacking the route's minimum role are
// redirected to the default view. Everything else is allowed, including
// unknown paths, which the navigation layer resolves to its own not-found
// view.
func (g *Guard) Check(path string, s session.Session) Decision {
	if !s.Authenticated {
		if path == LoginPath {
			return Decision{Allowed: true}
		}
		return Decision{Allowed: false, RedirectTo: LoginPath}
	}

	route, ok := g.routes[path]
	if !ok || route.MinRole == "" {
		return Decision{Allowed: true}
	}

	role := ""
	if s.CurrentUser != nil {
		role = s.CurrentUser.Role
	}
	if !domain.HasRole(role, route.MinRole) {
		return Decision{Allowed: false, RedirectTo: DefaultPath}
	}
	return Decision{Allowed: true}
}
