package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/towerops/toweradmin/internal/core/domain"
)

// RequireRole enforces a minimum role (admin > member > viewer) on a route
// group. The Auth middleware must run first.
func RequireRole(minRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !domain.HasRole(role, minRole) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// ReadOnlyForViewer lets viewers through on safe methods only; mutating
// requests require at least the member role.
func ReadOnlyForViewer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		switch c.Request().Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return next(c)
		}
		role, _ := c.Get("role").(string)
		if !domain.HasRole(role, domain.RoleMember) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
		return next(c)
	}
}
