package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almoxen-core/internal/application/reports"
	"github.com/jhoicas/almoxen-core/internal/application/synccache"
)

// SettingsHandler página de ajustes: prueba de conexión y refresh manual.
type SettingsHandler struct {
	reports *reports.Service
	cache   *synccache.Cache
}

// NewSettingsHandler construye el handler de ajustes.
func NewSettingsHandler(reports *reports.Service, cache *synccache.Cache) *SettingsHandler {
	return &SettingsHandler{reports: reports, cache: cache}
}

// Ping prueba la conexión con el backend y reporta la latencia.
func (h *SettingsHandler) Ping(c *fiber.Ctx) error {
	return c.JSON(h.reports.TestConnection(c.UserContext()))
}

// Refresh fuerza un fetch del snapshot, ignorando el TTL.
func (h *SettingsHandler) Refresh(c *fiber.Ctx) error {
	if err := h.cache.Refresh(c.UserContext()); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
