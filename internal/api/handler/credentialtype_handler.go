package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/towerops/toweradmin/internal/core/ports"
)

type CredentialTypeHandler struct {
	service ports.CredentialTypeService
}

func NewCredentialTypeHandler(service ports.CredentialTypeService) *CredentialTypeHandler {
	return &CredentialTypeHandler{service: service}
}

type duplicateRequest struct {
	Name               string   `json:"name" validate:"required"`
	Description        string   `json:"description"`
	MissingInInstances []string `json:"missing_in_instances" validate:"required,min=1"`
}

type verifyRequest struct {
	OriginalName       string   `json:"original_name" validate:"required"`
	AlternativeName    string   `json:"alternative_name" validate:"required"`
	MissingInInstances []string `json:"missing_in_instances" validate:"required,min=1"`
}

// Status returns every credential type found across the fleet with its
// presence rollup, as a bare JSON array.
//
// @Summary      Credential type fleet status
// @Tags         credential-types
// @Produce      json
// @Success      200  {array}  domain.CredentialTypeStatus
// @Router       /credential-type-status/ [get]
func (h *CredentialTypeHandler) Status(c echo.Context) error {
	statuses, err := h.service.Status(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statuses)
}

// Duplicate copies a credential type to the instances where it is missing.
func (h *CredentialTypeHandler) Duplicate(c echo.Context) error {
	var req duplicateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	results, err := h.service.Duplicate(c.Request().Context(), req.Name, req.Description, req.MissingInInstances)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}

// Verify checks whether a credential type exists under an alternative name.
func (h *CredentialTypeHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	results, err := h.service.Verify(c.Request().Context(), req.OriginalName, req.AlternativeName, req.MissingInInstances)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}
