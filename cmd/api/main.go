package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/almoxen-core/internal/application/access"
	"github.com/jhoicas/almoxen-core/internal/application/allocation"
	"github.com/jhoicas/almoxen-core/internal/application/movement"
	"github.com/jhoicas/almoxen-core/internal/application/reports"
	"github.com/jhoicas/almoxen-core/internal/application/synccache"
	"github.com/jhoicas/almoxen-core/internal/infrastructure/localstore"
	"github.com/jhoicas/almoxen-core/internal/infrastructure/sheets"
	httpRouter "github.com/jhoicas/almoxen-core/internal/interfaces/http"
	"github.com/jhoicas/almoxen-core/pkg/config"
	"github.com/jhoicas/almoxen-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	store, err := localstore.Open(cfg.Cache.StorePath)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento local")
	}
	defer store.Close()

	client := sheets.NewClient(cfg.Remote.APIURL, log)
	if !client.Configured() {
		log.Warn().Msg("REMOTE_API_URL vacío: arrancando en modo offline, solo datos persistidos")
	}

	cache := synccache.New(client, store, log, cfg.Cache.TTL, cfg.Remote.FetchTimeout)
	// Siembra desde lo persistido para servir desde el primer request; el
	// fetch inicial corre en segundo plano.
	cache.Bootstrap()
	if client.Configured() {
		go func() {
			if err := cache.Refresh(context.Background()); err != nil {
				log.Warn().Err(err).Msg("fetch inicial del snapshot falló")
			}
		}()
	}

	gate := access.NewGate(cache)
	session := access.NewSession(cache, store, client, gate, log)
	engine := allocation.NewEngine(cache)
	recorder := movement.NewRecorder(cache, client, gate, log)
	reportsSvc := reports.NewService(cache, client)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Cache:    cache,
		Engine:   engine,
		Recorder: recorder,
		Reports:  reportsSvc,
		Session:  session,
		Gate:     gate,
		JWT:      cfg.JWT,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
