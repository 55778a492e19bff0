package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/towerops/toweradmin/internal/core/domain"
	"github.com/towerops/toweradmin/internal/core/ports"
)

type ConfigHandler struct {
	repo ports.ConfigRepository
}

func NewConfigHandler(repo ports.ConfigRepository) *ConfigHandler {
	return &ConfigHandler{repo: repo}
}

type configRequest struct {
	BaseURL  string `json:"base_url" validate:"required,url"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password,omitempty"`
}

// Get returns the stored tower config, password excluded.
func (h *ConfigHandler) Get(c echo.Context) error {
	cfg, err := h.repo.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cfg)
}

// Save replaces the tower config. An empty password keeps the stored one.
func (h *ConfigHandler) Save(c echo.Context) error {
	var req configRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	next := &domain.TowerConfig{
		BaseURL:  req.BaseURL,
		Username: req.Username,
		Password: req.Password,
	}
	if next.Password == "" {
		if current, err := h.repo.Get(c.Request().Context()); err == nil {
			next.Password = current.Password
		}
	}

	saved, err := h.repo.Save(c.Request().Context(), next)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saved)
}
