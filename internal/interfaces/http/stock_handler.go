package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almoxen-core/internal/application/allocation"
	"github.com/jhoicas/almoxen-core/internal/application/dto"
	"github.com/jhoicas/almoxen-core/internal/application/synccache"
)

// StockHandler expone el stock consolidado, los lotes y la vista previa de
// reparto FIFO.
type StockHandler struct {
	engine *allocation.Engine
	cache  *synccache.Cache
}

// NewStockHandler construye el handler de stock.
func NewStockHandler(engine *allocation.Engine, cache *synccache.Cache) *StockHandler {
	return &StockHandler{engine: engine, cache: cache}
}

// Consolidated stock agregado por producto, solo saldos positivos.
func (h *StockHandler) Consolidated(c *fiber.Ctx) error {
	return c.JSON(h.engine.ConsolidatedStock(c.UserContext()))
}

// Batches lista los lotes crudos con su saldo por nota de empenho.
func (h *StockHandler) Batches(c *fiber.Ctx) error {
	return c.JSON(h.cache.Batches(c.UserContext()))
}

// Preview calcula el reparto FIFO para una cantidad sin registrar nada. El
// faltante viaja en la respuesta; decidir si procede es del llamador.
func (h *StockHandler) Preview(c *fiber.Ctx) error {
	var in dto.AllocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "productName es requerido"})
	}
	return c.JSON(h.engine.Allocate(c.UserContext(), in.ProductName, in.Quantity))
}
