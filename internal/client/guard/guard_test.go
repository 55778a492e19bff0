package guard

import (
	"testing"

	"github.com/towerops/toweradmin/internal/client/session"
	"github.com/towerops/toweradmin/internal/core/domain"
)

func sessionWithRole(role string) session.Session {
	return session.Session{
		Authenticated: true,
		CurrentUser:   &session.Profile{ID: "1", Username: "u", Role: role},
	}
}

func TestCheckRedirectsAnonymousToLogin(t *testing.T) {
	g := New(DefaultRoutes())

	d := g.Check("/instances", session.Session{})
	if d.Allowed {
		t.Fatal("anonymous user must not enter /instances")
	}
	if d.RedirectTo != LoginPath {
		t.Fatalf("expected redirect to %q, got %q", LoginPath, d.RedirectTo)
	}
}

func TestCheckAllowsAnonymousLoginView(t *testing.T) {
	g := New(DefaultRoutes())

	if d := g.Check(LoginPath, session.Session{}); !d.Allowed {
		t.Fatalf("login view must always be reachable, got %+v", d)
	}
}

func TestCheckRedirectsUnderPrivilegedToDashboard(t *testing.T) {
	g := New(DefaultRoutes())

	for _, role := range []string{domain.RoleMember, domain.RoleViewer} {
		d := g.Check("/users", sessionWithRole(role))
		if d.Allowed {
			t.Fatalf("role %q must not enter /users", role)
		}
		if d.RedirectTo != DefaultPath {
			t.Fatalf("role %q: expected redirect to %q, got %q", role, DefaultPath, d.RedirectTo)
		}
	}
}

func TestCheckAllowsAdminEverywhere(t *testing.T) {
	g := New(DefaultRoutes())
	admin := sessionWithRole(domain.RoleAdmin)

	for _, r := range DefaultRoutes() {
		if d := g.Check(r.Path, admin); !d.Allowed {
			t.Fatalf("admin must enter %q, got %+v", r.Path, d)
		}
	}
}

func TestCheckAllowsViewerOnUnrestrictedRoutes(t *testing.T) {
	g := New(DefaultRoutes())

	for _, path := range []string{"/dashboard", "/instances", "/audit-logs"} {
		if d := g.Check(path, sessionWithRole(domain.RoleViewer)); !d.Allowed {
			t.Fatalf("viewer must enter %q, got %+v", path, d)
		}
	}
}

func TestCheckMissingProfileFailsRoleCheck(t *testing.T) {
	g := New(DefaultRoutes())

	// Authenticated but the profile fetch has not resolved yet.
	d := g.Check("/users", session.Session{Authenticated: true})
	if d.Allowed {
		t.Fatal("role-gated route must deny a session without a resolved profile")
	}
	if d.RedirectTo != DefaultPath {
		t.Fatalf("expected redirect to %q, got %q", DefaultPath, d.RedirectTo)
	}
}

func TestCheckAllowsUnknownPaths(t *testing.T) {
	g := New(DefaultRoutes())

	if d := g.Check("/nowhere", sessionWithRole(domain.RoleViewer)); !d.Allowed {
		t.Fatalf("unknown paths are the navigation layer's concern, got %+v", d)
	}
}
