package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almoxen-core/internal/application/allocation"
	"github.com/jhoicas/almoxen-core/internal/application/dto"
	"github.com/jhoicas/almoxen-core/internal/application/movement"
	"github.com/jhoicas/almoxen-core/internal/application/reports"
)

// MovementHandler maneja el historial, las salidas por FIFO y los estornos.
type MovementHandler struct {
	engine   *allocation.Engine
	recorder *movement.Recorder
	reports  *reports.Service
}

// NewMovementHandler construye el handler de movimientos.
func NewMovementHandler(engine *allocation.Engine, recorder *movement.Recorder, reports *reports.Service) *MovementHandler {
	return &MovementHandler{engine: engine, recorder: recorder, reports: reports}
}

// List historial completo, del más reciente al más antiguo.
func (h *MovementHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.reports.Movements(c.UserContext()))
}

// Distribute reparte la cantidad pedida por FIFO y registra la salida como un
// único lote de movimientos. Si el stock no alcanza no se registra nada.
func (h *MovementHandler) Distribute(c *fiber.Ctx) error {
	var in dto.DistributeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductName == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "productName y quantity positiva son requeridos"})
	}

	result := h.engine.Allocate(c.UserContext(), in.ProductName, in.Quantity)
	if result.Shortfall.GreaterThan(decimal.Zero) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: "stock insuficiente: faltan " + result.Shortfall.String() + " de " + in.ProductName,
		})
	}

	receiptID, err := h.recorder.Distribute(c.UserContext(), result.Draws, GetEmail(c), in.Observation)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReceiptResponse{ReceiptID: receiptID})
}

// Reverse estorna una salida por su ID.
func (h *MovementHandler) Reverse(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id del movimiento requerido"})
	}
	if err := h.recorder.Reverse(c.UserContext(), id, GetEmail(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
