// Command hms-console serves the hotel administration web console.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hotelops/hms-console/internal/api"
	"github.com/hotelops/hms-console/internal/api/handler"
	"github.com/hotelops/hms-console/internal/api/view"
	"github.com/hotelops/hms-console/internal/api/workspace"
	"github.com/hotelops/hms-console/internal/infrastructure/apiclient"
	"github.com/hotelops/hms-console/internal/infrastructure/session"
	"github.com/hotelops/hms-console/internal/pkg/config"
	"github.com/hotelops/hms-console/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "hms-console",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := session.Open(ctx, cfg, config.BackendMemory)
	if err != nil {
		log.Fatal().Err(err).Msg("open session backend")
	}
	defer func() {
		if err := backend.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("close session backend")
		}
	}()

	client, err := apiclient.New(cfg.API.URL, logger.Component("apiclient"), apiclient.WithTimeout(cfg.API.Timeout))
	if err != nil {
		log.Fatal().Err(err).Msg("configure api client")
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("load templates")
	}

	checks := map[string]handler.Check{"api": client.Ping}
	if backend.Ping != nil {
		checks[backend.Name] = backend.Ping
	}

	e := api.NewRouter(api.Deps{
		Registry:      workspace.NewRegistry(backend.Backend, client, cfg.Session.TTL, logger.Component("workspace")),
		Renderer:      renderer,
		Checks:        checks,
		SecureCookies: cfg.Console.SecureCookies,
		Log:           logger.Component("http"),
	})

	go func() {
		log.Info().
			Str("addr", cfg.Console.Addr).
			Str("api", client.Origin()).
			Str("session_backend", backend.Name).
			Msg("console listening")
		if err := e.Start(cfg.Console.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("console server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
}
