package dto

import "github.com/jhoicas/almoxen-core/internal/domain/entity"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

// LoginResponse salida con token JWT y el usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// SaveUserRequest alta o edición de un usuario. Password vacío conserva la
// contraseña existente en el backend.
type SaveUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=ADMIN MANAGER OPERATOR GUEST"`
	Active   bool   `json:"active"`
	Password string `json:"password" validate:"omitempty,min=4"`
}

// PasswordChangeRequest cambio de contraseña de la sesión actual.
type PasswordChangeRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=4"`
}

// NewUserResponse proyecta un usuario de dominio sin exponer la contraseña.
func NewUserResponse(u entity.User) UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name, Role: u.Role, Active: u.Active}
}
