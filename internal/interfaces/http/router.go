package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almoxen-core/internal/application/access"
	"github.com/jhoicas/almoxen-core/internal/application/allocation"
	"github.com/jhoicas/almoxen-core/internal/application/movement"
	"github.com/jhoicas/almoxen-core/internal/application/reports"
	"github.com/jhoicas/almoxen-core/internal/application/synccache"
	"github.com/jhoicas/almoxen-core/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Cache    *synccache.Cache
	Engine   *allocation.Engine
	Recorder *movement.Recorder
	Reports  *reports.Service
	Session  *access.Session
	Gate     *access.Gate
	JWT      config.JWTConfig
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Salud (público)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "loaded": deps.Cache.Loaded()})
	})

	// Auth (público)
	authHandler := NewAuthHandler(deps.Session, deps.JWT)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWT.Secret))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	// Panel (protegido)
	dashboardHandler := NewDashboardHandler(deps.Reports)
	protected.Get("/dashboard", dashboardHandler.Stats)

	// Stock y reparto (protegido)
	stockHandler := NewStockHandler(deps.Engine, deps.Cache)
	protected.Get("/stock", stockHandler.Consolidated)
	protected.Get("/batches", stockHandler.Batches)
	protected.Post("/allocation/preview", stockHandler.Preview)

	// Movimientos (protegido)
	movementHandler := NewMovementHandler(deps.Engine, deps.Recorder, deps.Reports)
	movements := protected.Group("/movements")
	movements.Get("/", movementHandler.List)
	movements.Post("/distribute", movementHandler.Distribute)
	movements.Post("/:id/reverse", movementHandler.Reverse)

	// Notas de empenho (protegido)
	documentHandler := NewDocumentHandler(deps.Recorder, deps.Cache)
	documents := protected.Group("/documents")
	documents.Get("/", documentHandler.List)
	documents.Post("/", documentHandler.Create)

	// Usuarios (protegido; el listado y el alta exigen ADMIN, el cambio de
	// contraseña es de la propia sesión)
	userHandler := NewUserHandler(deps.Session, deps.Cache, deps.Gate)
	users := protected.Group("/users")
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Save)
	users.Post("/password", authHandler.ChangePassword)

	// Ajustes (protegido)
	settingsHandler := NewSettingsHandler(deps.Reports, deps.Cache)
	settings := protected.Group("/settings")
	settings.Get("/ping", settingsHandler.Ping)
	protected.Post("/cache/refresh", settingsHandler.Refresh)
}
