package access

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/almoxen-core/internal/application/synccache"
	"github.com/jhoicas/almoxen-core/internal/domain"
	"github.com/jhoicas/almoxen-core/internal/domain/entity"
	"github.com/jhoicas/almoxen-core/internal/infrastructure/localstore"
	"github.com/jhoicas/almoxen-core/pkg/logger"
)

// Submitter puerto de salida para las mutaciones de usuario (saveUser).
type Submitter interface {
	Post(ctx context.Context, action string, payload any) (string, error)
}

// Session maneja la sesión local (una clave durable con el email; ausencia =
// visitante) y las operaciones de cuenta: login, logout, alta/edición de
// usuarios y cambio de contraseña propia.
type Session struct {
	cache  *synccache.Cache
	store  *localstore.Store
	client Submitter
	gate   *Gate
	log    *logger.Logger
}

// NewSession construye la capa de sesión.
func NewSession(cache *synccache.Cache, store *localstore.Store, client Submitter, gate *Gate, log *logger.Logger) *Session {
	return &Session{cache: cache, store: store, client: client, gate: gate, log: log}
}

// CurrentUser resuelve la sesión actual. Jamás bloquea: si el snapshot aún no
// cargó devuelve visitante y dispara un refresh de fondo; la cuenta de rescate
// se resuelve sin red.
func (s *Session) CurrentUser(ctx context.Context) entity.User {
	email, ok, err := s.store.Get(localstore.KeySession)
	if err != nil {
		s.log.Warn().Err(err).Msg("leer sesión local")
		return entity.GuestUser()
	}
	if !ok || email == "" {
		return entity.GuestUser()
	}
	if email == entity.RescueAdminEmail {
		return entity.RescueAdmin()
	}

	if !s.cache.Loaded() {
		go func() {
			_ = s.cache.Refresh(context.Background())
		}()
		return entity.GuestUser()
	}

	if u, found := s.cache.FindUser(email); found {
		return u
	}
	return entity.GuestUser()
}

// Login valida credenciales y fija la sesión. El par admin/admin entra como
// cuenta de rescate sin tocar la red (sirve para recuperar un sistema con el
// backend caído); el resto se valida contra el snapshot tras forzar un
// refresh de mejor esfuerzo.
func (s *Session) Login(ctx context.Context, email, password string) (entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "admin" && password == "admin" {
		rescue := entity.RescueAdmin()
		if err := s.setCurrent(rescue.Email); err != nil {
			return entity.User{}, err
		}
		return rescue, nil
	}

	if strings.TrimSpace(password) == "" {
		return entity.User{}, fmt.Errorf("%w: contraseña vacía", domain.ErrUnauthorized)
	}

	if err := s.cache.Refresh(ctx); err != nil {
		// Sin red se intenta igual contra el último snapshot conocido.
		s.log.Warn().Err(err).Msg("refresh previo al login falló")
	}

	for _, u := range s.cache.Snapshot().Users {
		if strings.ToLower(u.Email) != email || !u.Active {
			continue
		}
		if VerifyPassword(u.Password, strings.TrimSpace(password)) {
			if err := s.setCurrent(u.Email); err != nil {
				return entity.User{}, err
			}
			return u, nil
		}
		break
	}
	return entity.User{}, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
}

// Logout borra la sesión y publica el cambio a los suscriptores.
func (s *Session) Logout() error {
	if err := s.store.Delete(localstore.KeySession); err != nil {
		return err
	}
	s.cache.Notify()
	return nil
}

func (s *Session) setCurrent(email string) error {
	if err := s.store.Put(localstore.KeySession, email); err != nil {
		return fmt.Errorf("guardar sesión local: %w", err)
	}
	s.cache.Notify()
	return nil
}

// SaveUser alta o edición de un usuario (panel de administración). Solo ADMIN.
func (s *Session) SaveUser(ctx context.Context, actorEmail string, user entity.User) error {
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("%w: email obligatorio", domain.ErrValidation)
	}
	if err := s.gate.Authorize(actorEmail, entity.ActionSaveUser); err != nil {
		return err
	}

	if _, err := s.client.Post(ctx, entity.ActionSaveUser, user); err != nil {
		return err
	}
	if err := s.cache.Refresh(ctx); err != nil {
		s.log.Warn().Err(err).Msg("refresh tras saveUser falló; el snapshot se actualizará después")
	}
	return nil
}

// ChangeOwnPassword cambia la contraseña de la sesión actual. Verifica la
// anterior en cualquiera de los dos formatos y guarda siempre la nueva como
// hash PBKDF2.
func (s *Session) ChangeOwnPassword(ctx context.Context, oldPlain, newPlain string) error {
	current := s.CurrentUser(ctx)
	if current.Role == entity.RoleGuest {
		return fmt.Errorf("%w: los visitantes no tienen contraseña", domain.ErrAccessDenied)
	}
	if strings.TrimSpace(newPlain) == "" {
		return fmt.Errorf("%w: la contraseña nueva no puede ser vacía", domain.ErrValidation)
	}

	stored, found := s.cache.FindUser(current.Email)
	if !found {
		// La cuenta de rescate no existe como fila; no tiene contraseña que cambiar.
		return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, current.Email)
	}
	if !VerifyPassword(stored.Password, strings.TrimSpace(oldPlain)) {
		return fmt.Errorf("%w: la contraseña actual no coincide", domain.ErrUnauthorized)
	}

	updated := stored
	updated.Password = HashPassword(strings.TrimSpace(newPlain))
	if _, err := s.client.Post(ctx, entity.ActionSaveUser, updated); err != nil {
		return err
	}
	if err := s.cache.Refresh(ctx); err != nil {
		s.log.Warn().Err(err).Msg("refresh tras cambio de contraseña falló")
	}
	return nil
}
