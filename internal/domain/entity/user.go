package entity

// Roles válidos para User.
const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleOperator = "OPERATOR"
	RoleGuest    = "GUEST"
)

// Cuentas especiales. El admin de rescate permite entrar aunque el backend
// esté inaccesible; nunca viaja por la red.
const (
	RescueAdminEmail = "admin@resgate"
	GuestEmail       = "public@guest.com"
)

// User representa un usuario del almoxarifado. La clave es el email.
type User struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
	Password string `json:"password,omitempty"` // PBKDF2-SHA256 en hex, o texto plano legado
}

// GuestUser sesión anónima: sin permisos de mutación.
func GuestUser() User {
	return User{Email: GuestEmail, Name: "Visitante", Role: RoleGuest, Active: true}
}

// RescueAdmin cuenta de rescate offline.
func RescueAdmin() User {
	return User{Email: RescueAdminEmail, Name: "Admin Resgate", Role: RoleAdmin, Active: true}
}
