package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/towerops/toweradmin/internal/core/domain"
)

func runWithRole(t *testing.T, mw echo.MiddlewareFunc, method, role string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestRequireRole_AdminPasses(t *testing.T) {
	rec, called := runWithRole(t, RequireRole(domain.RoleAdmin), http.MethodGet, domain.RoleAdmin)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("admin must pass, called=%v code=%d", called, rec.Code)
	}
}

func TestRequireRole_LowerRolesForbidden(t *testing.T) {
	for _, role := range []string{domain.RoleMember, domain.RoleViewer, ""} {
		rec, called := runWithRole(t, RequireRole(domain.RoleAdmin), http.MethodGet, role)
		if called {
			t.Fatalf("role %q must not pass an admin gate", role)
		}
		if rec.Code != http.StatusForbidden {
			t.Fatalf("role %q: expected 403, got %d", role, rec.Code)
		}
	}
}

func TestRequireRole_MemberGateAdmitsAdmin(t *testing.T) {
	rec, called := runWithRole(t, RequireRole(domain.RoleMember), http.MethodGet, domain.RoleAdmin)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("admin must pass a member gate, called=%v code=%d", called, rec.Code)
	}
}

func TestReadOnlyForViewer_ReadsPass(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		rec, called := runWithRole(t, ReadOnlyForViewer, method, domain.RoleViewer)
		if !called || rec.Code != http.StatusOK {
			t.Fatalf("%s must pass for viewer, called=%v code=%d", method, called, rec.Code)
		}
	}
}

func TestReadOnlyForViewer_MutationsForbidden(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rec, called := runWithRole(t, ReadOnlyForViewer, method, domain.RoleViewer)
		if called {
			t.Fatalf("%s must not pass for viewer", method)
		}
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", method, rec.Code)
		}
	}
}

func TestReadOnlyForViewer_MemberMayMutate(t *testing.T) {
	rec, called := runWithRole(t, ReadOnlyForViewer, http.MethodPost, domain.RoleMember)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("member must mutate, called=%v code=%d", called, rec.Code)
	}
}
