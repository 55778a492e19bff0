package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/towerops/toweradmin/internal/core/domain"
	"github.com/towerops/toweradmin/internal/core/ports"
)

type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

type auditListResponse struct {
	Count   int                 `json:"count"`
	Results []domain.AuditEntry `json:"results"`
}

// List returns audit entries newest first, wrapped in a paginated-style
// envelope. Clients normalize this and the bare-array listings to one shape.
//
// @Summary      List audit log entries
// @Tags         audit
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries to return"
// @Success      200    {object}  auditListResponse
// @Router       /audit-logs/ [get]
func (h *AuditHandler) List(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}

	entries, err := h.service.List(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, auditListResponse{Count: len(entries), Results: entries})
}
