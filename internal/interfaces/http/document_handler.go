package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almoxen-core/internal/application/dto"
	"github.com/jhoicas/almoxen-core/internal/application/movement"
	"github.com/jhoicas/almoxen-core/internal/application/synccache"
)

// DocumentHandler maneja las notas de empenho.
type DocumentHandler struct {
	recorder *movement.Recorder
	cache    *synccache.Cache
}

// NewDocumentHandler construye el handler de notas.
func NewDocumentHandler(recorder *movement.Recorder, cache *synccache.Cache) *DocumentHandler {
	return &DocumentHandler{recorder: recorder, cache: cache}
}

// List notas de empenho conocidas.
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.cache.Documents(c.UserContext()))
}

// Create registra una nota con sus lotes y entradas iniciales.
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Number == "" || in.Supplier == "" || len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "number, supplier e items son requeridos"})
	}

	items := make([]movement.LineItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, movement.LineItem{
			Name:          it.Name,
			Unit:          it.Unit,
			QtyPerPackage: it.QtyPerPackage,
			InitialQty:    it.InitialQty,
			UnitValue:     it.UnitValue,
			MinStock:      it.MinStock,
		})
	}
	meta := movement.DocumentInput{Number: in.Number, Supplier: in.Supplier, Date: in.Date}
	if err := h.recorder.CreateDocument(c.UserContext(), meta, items, GetEmail(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}
