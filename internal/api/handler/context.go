package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxActor extracts the username injected by the Auth middleware. Presence
// proves the middleware ran; its absence on a protected route is a wiring
// bug, rejected with 401 before any service call.
func ctxActor(c echo.Context) (string, error) {
	username, _ := c.Get("username").(string)
	if username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return username, nil
}
