package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Clinica-api/internal/application/analytics"
)

// DashboardHandler maneja las peticiones HTTP del resumen del dashboard.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen del día y del mes (solo ventas pagadas)
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
