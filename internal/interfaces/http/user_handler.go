package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almoxen-core/internal/application/access"
	"github.com/jhoicas/almoxen-core/internal/application/dto"
	"github.com/jhoicas/almoxen-core/internal/application/synccache"
	"github.com/jhoicas/almoxen-core/internal/domain/entity"
)

// UserHandler panel de administración de usuarios. Todo aquí exige ADMIN.
type UserHandler struct {
	session *access.Session
	cache   *synccache.Cache
	gate    *access.Gate
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(session *access.Session, cache *synccache.Cache, gate *access.Gate) *UserHandler {
	return &UserHandler{session: session, cache: cache, gate: gate}
}

// List usuarios registrados, sin contraseñas.
func (h *UserHandler) List(c *fiber.Ctx) error {
	if err := h.gate.Authorize(GetEmail(c), entity.ActionSaveUser); err != nil {
		return fail(c, err)
	}
	users := h.cache.Users(c.UserContext())
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	return c.JSON(out)
}

// Save alta o edición de un usuario.
func (h *UserHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Name == "" || in.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email, name y role son requeridos"})
	}

	user := entity.User{Email: in.Email, Name: in.Name, Role: in.Role, Active: in.Active}
	if in.Password != "" {
		user.Password = access.HashPassword(in.Password)
	}
	if err := h.session.SaveUser(c.UserContext(), GetEmail(c), user); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
