package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almoxen-core/internal/application/reports"
)

// DashboardHandler expone el resumen del panel.
type DashboardHandler struct {
	reports *reports.Service
}

// NewDashboardHandler construye el handler del panel.
func NewDashboardHandler(reports *reports.Service) *DashboardHandler {
	return &DashboardHandler{reports: reports}
}

// Stats resumen agregado: valor de stock, bajo mínimo, series de salida.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.reports.Dashboard(c.UserContext()))
}
