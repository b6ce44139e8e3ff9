// Package access es el único punto de autorización del sistema: el backend
// remoto no valida permisos por sí mismo, así que cada camino de mutación debe
// pasar por aquí antes de tocar la red (defensa en profundidad, no solo
// ocultamiento en la UI). También es dueño, junto al Sync Cache, del concepto
// de "usuario de la sesión actual".
package access

import (
	"fmt"

	"github.com/jhoicas/almoxen-core/internal/application/synccache"
	"github.com/jhoicas/almoxen-core/internal/domain"
	"github.com/jhoicas/almoxen-core/internal/domain/entity"
)

// permitted tabla rol → acciones de mutación permitidas.
var permitted = map[string]map[string]bool{
	entity.RoleAdmin: {
		entity.ActionSaveUser:   true,
		entity.ActionCreateNE:   true,
		entity.ActionDistribute: true,
		entity.ActionReverse:    true,
	},
	entity.RoleManager: {
		entity.ActionCreateNE:   true,
		entity.ActionDistribute: true,
		entity.ActionReverse:    true,
	},
	entity.RoleOperator: {
		entity.ActionDistribute: true,
	},
	entity.RoleGuest: {},
}

// Allowed consulta la tabla. Un rol desconocido no permite nada.
func Allowed(role, action string) bool {
	return permitted[role][action]
}

// Gate autoriza mutaciones contra la tabla de permisos, resolviendo el rol
// del actor desde el snapshot cacheado.
type Gate struct {
	cache *synccache.Cache
}

// NewGate construye el gate.
func NewGate(cache *synccache.Cache) *Gate {
	return &Gate{cache: cache}
}

// Resolve devuelve el usuario efectivo para un email: la cuenta de rescate se
// resuelve sin red, un email vacío o desconocido (o inactivo) degrada a
// visitante. No fuerza frescura: una denegación por cache viejo se corrige en
// el siguiente snapshot.
func (g *Gate) Resolve(email string) entity.User {
	if email == "" {
		return entity.GuestUser()
	}
	if email == entity.RescueAdminEmail {
		return entity.RescueAdmin()
	}
	if u, ok := g.cache.FindUser(email); ok {
		return u
	}
	return entity.GuestUser()
}

// Authorize corta la mutación antes de cualquier llamada de red si el rol del
// actor no permite la acción. ErrAccessDenied es distinguible de los fallos de
// red y de validación.
func (g *Gate) Authorize(actorEmail, action string) error {
	user := g.Resolve(actorEmail)
	if Allowed(user.Role, action) {
		return nil
	}
	return fmt.Errorf("%w: el rol %s no permite %s", domain.ErrAccessDenied, user.Role, action)
}
