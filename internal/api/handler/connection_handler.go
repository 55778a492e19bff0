package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/towerops/toweradmin/internal/core/ports"
)

type ConnectionHandler struct {
	service ports.ConnectionService
}

func NewConnectionHandler(service ports.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{service: service}
}

type testConnectionRequest struct {
	URL      string `json:"url" validate:"required,url"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Test pings an instance with the supplied credentials. Failure classes map
// to distinct statuses via the central error handler.
//
// @Summary      Test instance connectivity
// @Tags         connection
// @Accept       json
// @Produce      json
// @Param        body  body      testConnectionRequest  true  "Connection details"
// @Success      200   {object}  map[string]string
// @Router       /test-connection/ [post]
func (h *ConnectionHandler) Test(c echo.Context) error {
	var req testConnectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.TestConnection(c.Request().Context(), req.URL, req.Username, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "connection successful"})
}

// TowerCredentials proxies the upstream credential listing through the
// stored tower config.
func (h *ConnectionHandler) TowerCredentials(c echo.Context) error {
	creds, err := h.service.ProxyCredentials(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, creds)
}
