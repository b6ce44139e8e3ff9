package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almoxen-core/internal/application/access"
	"github.com/jhoicas/almoxen-core/internal/application/dto"
	"github.com/jhoicas/almoxen-core/pkg/config"
	"github.com/jhoicas/almoxen-core/pkg/jwt"
)

// AuthHandler maneja login, logout y cambio de contraseña propia.
type AuthHandler struct {
	session *access.Session
	jwtCfg  config.JWTConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(session *access.Session, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{session: session, jwtCfg: jwtCfg}
}

// Login valida credenciales contra el snapshot y emite el token JWT.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	user, err := h.session.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return fail(c, err)
	}
	token, err := jwt.Generate(h.jwtCfg.Secret, user.Email, user.Role, h.jwtCfg.Issuer, h.jwtCfg.Expiration)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)})
}

// Logout cierra la sesión local.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.session.Logout(); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me devuelve el usuario de la sesión actual.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(dto.NewUserResponse(h.session.CurrentUser(c.UserContext())))
}

// ChangePassword cambia la contraseña de la sesión actual.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.PasswordChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.OldPassword == "" || in.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "oldPassword y newPassword son requeridos"})
	}
	if err := h.session.ChangeOwnPassword(c.UserContext(), in.OldPassword, in.NewPassword); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
