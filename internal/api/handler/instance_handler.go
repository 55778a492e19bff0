package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/towerops/toweradmin/internal/core/ports"
)

type InstanceHandler struct {
	service ports.InstanceService
}

func NewInstanceHandler(service ports.InstanceService) *InstanceHandler {
	return &InstanceHandler{service: service}
}

// List returns all instances as a bare JSON array.
//
// @Summary      List tower instances
// @Tags         instances
// @Produce      json
// @Success      200  {array}  domain.Instance
// @Router       /instances/ [get]
func (h *InstanceHandler) List(c echo.Context) error {
	instances, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, instances)
}

// Create registers a new instance.
//
// @Summary      Create tower instance
// @Tags         instances
// @Accept       json
// @Produce      json
// @Param        body  body      ports.InstanceInput  true  "Instance details"
// @Success      201   {object}  domain.Instance
// @Router       /instances/ [post]
func (h *InstanceHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var in ports.InstanceInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.Create(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update replaces an instance's fields.
//
// @Summary      Update tower instance
// @Tags         instances
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Instance ID"
// @Param        body  body      ports.InstanceInput  true  "Instance details"
// @Success      200   {object}  domain.Instance
// @Router       /instances/{id}/ [put]
func (h *InstanceHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var in ports.InstanceInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes an instance.
//
// @Summary      Delete tower instance
// @Tags         instances
// @Param        id  path  string  true  "Instance ID"
// @Success      204
// @Router       /instances/{id}/ [delete]
func (h *InstanceHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
