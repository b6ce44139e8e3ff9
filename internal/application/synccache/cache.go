// Package synccache mantiene la única copia en proceso del snapshot remoto y
// la sincroniza bajo conectividad poco confiable: arranque offline desde el
// cache local, refresh de vuelo único, política stale-while-revalidate y
// notificación a suscriptores. Es el único escritor del estado; el resto del
// núcleo recibe vistas de solo lectura.
package synccache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/almoxen-core/internal/domain"
	"github.com/jhoicas/almoxen-core/internal/domain/entity"
	"github.com/jhoicas/almoxen-core/internal/infrastructure/localstore"
	"github.com/jhoicas/almoxen-core/pkg/logger"
)

// Fetcher puerto de salida hacia el backend: el fetch del snapshot completo.
// Lo implementa sheets.Client; los tests inyectan fakes.
type Fetcher interface {
	GetAll(ctx context.Context) (*entity.RawSnapshot, error)
}

// Cache estado compartido del snapshot. Ciclo de vida:
// New → Bootstrap → [Refresh | EnsureFresh]*.
//
// El snapshot es inmutable-y-reemplazado: cada refresh exitoso produce un
// *entity.Snapshot nuevo que se intercambia bajo el lock, así un lector nunca
// observa un snapshot a medio actualizar.
type Cache struct {
	fetcher Fetcher
	store   *localstore.Store
	log     *logger.Logger
	ttl     time.Duration
	timeout time.Duration

	mu        sync.RWMutex
	snap      *entity.Snapshot
	loaded    bool // true desde que se adoptó algún snapshot (aunque sea vacío)
	lastFetch time.Time

	group singleflight.Group

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New construye el cache. ttl es la ventana de frescura; timeout el límite
// duro por fetch (la cancelación corta solo la petición en vuelo, nunca toca
// estado ya adoptado).
func New(fetcher Fetcher, store *localstore.Store, log *logger.Logger, ttl, timeout time.Duration) *Cache {
	return &Cache{
		fetcher: fetcher,
		store:   store,
		log:     log,
		ttl:     ttl,
		timeout: timeout,
		subs:    make(map[int]func()),
	}
}

// Bootstrap intenta adoptar el último snapshot persistido, sin red y sin
// notificar (en el arranque todavía no hay suscriptores). Falla en silencio:
// sin cache local el estado queda EMPTY hasta el primer refresh.
func (c *Cache) Bootstrap() {
	blob, ok, err := c.store.Get(localstore.KeySnapshot)
	if err != nil {
		c.log.Warn().Err(err).Msg("leer snapshot local")
		return
	}
	if !ok {
		return
	}

	var raw entity.RawSnapshot
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		c.log.Warn().Err(err).Msg("snapshot local corrupto; se descarta")
		return
	}

	c.mu.Lock()
	c.snap = entity.DecodeSnapshot(&raw)
	c.loaded = true
	// lastFetch queda en cero: el snapshot sirve pero se considera viejo,
	// el primer EnsureFresh dispara un refresh de fondo.
	c.mu.Unlock()

	c.log.Info().
		Int("batches", len(c.snap.Batches)).
		Int("movements", len(c.snap.Movements)).
		Msg("snapshot local adoptado")
}

// Refresh fuerza un fetch del snapshot completo. Llamadas concurrentes
// comparten la misma operación en vuelo (vuelo único): una segunda llamada no
// abre una segunda petición, espera el mismo resultado. Si el contexto del
// llamador muere primero, ese llamador deja de esperar pero el fetch
// compartido continúa para los demás.
func (c *Cache) Refresh(ctx context.Context) error {
	ch := c.group.DoChan("refresh", func() (any, error) {
		return nil, c.doRefresh()
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", domain.ErrTransient, ctx.Err())
	}
}

func (c *Cache) doRefresh() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	raw, err := c.fetcher.GetAll(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("refresh de snapshot falló")

		c.mu.Lock()
		if c.loaded {
			// Ya hay datos (aunque viejos): se mantienen tal cual.
			c.mu.Unlock()
			return err
		}
		// Nunca cargó nada: se adopta un snapshot vacío para que las
		// lecturas dependientes no queden bloqueadas indefinidamente.
		c.snap = entity.EmptySnapshot()
		c.loaded = true
		c.mu.Unlock()

		c.Notify()
		return err
	}

	snap := entity.DecodeSnapshot(raw)

	if blob, merr := json.Marshal(raw); merr == nil {
		if perr := c.store.Put(localstore.KeySnapshot, string(blob)); perr != nil {
			c.log.Warn().Err(perr).Msg("persistir snapshot local")
		}
	}

	c.mu.Lock()
	c.snap = snap
	c.loaded = true
	c.lastFetch = time.Now()
	c.mu.Unlock()

	c.log.Debug().
		Int("batches", len(snap.Batches)).
		Int("movements", len(snap.Movements)).
		Msg("snapshot reemplazado")

	c.Notify()
	return nil
}

// EnsureFresh es la puerta de toda lectura. Sin snapshot: espera un refresh
// (tras el cual siempre hay snapshot, aunque sea vacío). Con snapshot viejo:
// dispara un refresh de fondo sin bloquear al llamador
// (stale-while-revalidate). Con snapshot fresco: no hace nada.
func (c *Cache) EnsureFresh(ctx context.Context) {
	c.mu.RLock()
	loaded := c.loaded
	stale := time.Since(c.lastFetch) > c.ttl
	c.mu.RUnlock()

	if !loaded {
		if err := c.Refresh(ctx); err != nil {
			c.log.Warn().Err(err).Msg("refresh inicial falló; se sirve snapshot vacío")
		}
		return
	}

	if stale {
		go func() {
			if err := c.Refresh(context.Background()); err != nil {
				c.log.Debug().Err(err).Msg("refresh de fondo falló; se sigue sirviendo el snapshot viejo")
			}
		}()
	}
}

// Snapshot devuelve la vista actual; nunca nil.
func (c *Cache) Snapshot() *entity.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return entity.EmptySnapshot()
	}
	return c.snap
}

// Loaded indica si alguna vez se adoptó un snapshot.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Subscribe registra un listener que se invoca tras cada refresh exitoso o
// acuse de mutación local. Devuelve la función que elimina exactamente ese
// registro.
func (c *Cache) Subscribe(fn func()) (unsubscribe func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

// Notify publica "snapshot reemplazado" a todos los suscriptores, en forma
// síncrona. También lo usa la capa de sesión al cerrar sesión.
func (c *Cache) Notify() {
	c.subMu.Lock()
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// ── Lecturas read-through ─────────────────────────────────────────────────────

// Users lista de usuarios del snapshot (pasando por EnsureFresh).
func (c *Cache) Users(ctx context.Context) []entity.User {
	c.EnsureFresh(ctx)
	return c.Snapshot().Users
}

// Batches lista de lotes del snapshot.
func (c *Cache) Batches(ctx context.Context) []entity.Batch {
	c.EnsureFresh(ctx)
	return c.Snapshot().Batches
}

// Movements lista de movimientos del snapshot.
func (c *Cache) Movements(ctx context.Context) []entity.Movement {
	c.EnsureFresh(ctx)
	return c.Snapshot().Movements
}

// Documents lista de notas de empenho del snapshot.
func (c *Cache) Documents(ctx context.Context) []entity.Document {
	c.EnsureFresh(ctx)
	return c.Snapshot().Documents
}

// FindBatch busca un lote por ID sobre el snapshot actual, sin tocar la red.
func (c *Cache) FindBatch(id string) (entity.Batch, bool) {
	for _, b := range c.Snapshot().Batches {
		if b.ID == id {
			return b, true
		}
	}
	return entity.Batch{}, false
}

// FindMovement busca un movimiento por ID sobre el snapshot actual.
func (c *Cache) FindMovement(id string) (entity.Movement, bool) {
	for _, m := range c.Snapshot().Movements {
		if m.ID == id {
			return m, true
		}
	}
	return entity.Movement{}, false
}

// FindUser busca un usuario activo por email sobre el snapshot actual.
func (c *Cache) FindUser(email string) (entity.User, bool) {
	for _, u := range c.Snapshot().Users {
		if u.Email == email && u.Active {
			return u, true
		}
	}
	return entity.User{}, false
}
