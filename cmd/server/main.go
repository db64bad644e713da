// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

// ScholarMesh server binary.
//
// Startup order matters: configuration first (logging settings live there),
// then logging, then the database and the suggestion engine, and finally
// the supervisor tree that owns the HTTP server and the event consumer.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkaya-dev/scholarmesh/internal/api"
	"github.com/mkaya-dev/scholarmesh/internal/autotag"
	"github.com/mkaya-dev/scholarmesh/internal/config"
	"github.com/mkaya-dev/scholarmesh/internal/database"
	"github.com/mkaya-dev/scholarmesh/internal/events"
	"github.com/mkaya-dev/scholarmesh/internal/logging"
	"github.com/mkaya-dev/scholarmesh/internal/semantic"
	"github.com/mkaya-dev/scholarmesh/internal/suggest"
	"github.com/mkaya-dev/scholarmesh/internal/supervisor"
	"github.com/mkaya-dev/scholarmesh/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting ScholarMesh")
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("weight_preset", cfg.Suggest.WeightPreset).
		Bool("semantic_enabled", cfg.Semantic.Enabled).
		Msg("Configuration loaded")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	// Semantic similarity is optional. A missing key or a failing provider
	// degrades the semantic signal to 0; suggestions still work.
	var provider semantic.Provider
	if cfg.Semantic.Enabled {
		openaiProvider, perr := semantic.NewOpenAIProvider(&cfg.Semantic)
		if perr != nil {
			logging.Warn().Err(perr).Msg("Semantic provider unavailable, continuing without bio similarity")
		} else {
			provider = semantic.NewBreakerProvider(openaiProvider)
			logging.Info().Str("model", cfg.Semantic.Model).Msg("Semantic provider initialized")
		}
	} else {
		logging.Info().Msg("Semantic similarity disabled")
	}

	opts, err := suggest.OptionsFromConfig(&cfg.Suggest)
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid suggestion engine configuration")
	}
	engine := suggest.New(db, provider, opts)

	// In-process event bus: researcher writes publish researcher.saved,
	// the auto-tagging consumer picks them up asynchronously.
	bus := events.NewBus()
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	tagger := autotag.New(db)
	eventRouter, err := events.NewRouter(bus, tagger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event router")
	}

	handler := api.NewRouter(db, engine, bus, &cfg.API).Routes()
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
	tree.AddEventsService(services.NewEventConsumerService(eventRouter))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", srv.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("ScholarMesh stopped gracefully")
}
