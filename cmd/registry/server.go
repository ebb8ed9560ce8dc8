// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/AleutianAI/PeopleRegistry/pkg/config"
	"github.com/AleutianAI/PeopleRegistry/pkg/logging"
	"github.com/AleutianAI/PeopleRegistry/pkg/telemetry"
	"github.com/AleutianAI/PeopleRegistry/services/registry"
	"github.com/AleutianAI/PeopleRegistry/services/registry/middleware"
	"github.com/AleutianAI/PeopleRegistry/services/registry/observability"
	"github.com/awnumar/memguard"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"
)

const (
	// metricsPath serves Prometheus metrics.
	metricsPath = "/metrics"

	// shutdownTimeout bounds in-flight request draining.
	shutdownTimeout = 5 * time.Second

	// readHeaderTimeout guards against slow header writes.
	readHeaderTimeout = 10 * time.Second

	// minSecretKeyLength is the shortest SECRET_KEY accepted without a warning.
	minSecretKeyLength = 16
)

// routerDeps is everything newRouter needs.
type routerDeps struct {
	cfg      *config.Config
	store    registry.Store
	logger   *slog.Logger
	registry prometheus.Registerer
	gatherer prometheus.Gatherer
}

// newRouter assembles the gin engine.
//
// Middleware order: Recovery, otelgin, RequestID, RequestLogger. The rate
// limiter, when enabled, applies to the mutating routes only.
func newRouter(deps routerDeps) *gin.Engine {
	metrics := observability.NewRegistryMetrics(deps.registry)
	if n, err := deps.store.Len(); err == nil {
		metrics.SetRecords(n)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(deps.cfg.ServiceName))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.logger, metrics))

	limiter := middleware.NewLimiter(deps.cfg.RateLimit, deps.cfg.RateBurst)
	handlers := registry.NewHandlers(deps.store).WithMetrics(metrics)
	registry.RegisterRoutes(router, handlers, middleware.RateLimit(limiter))

	router.GET(metricsPath, gin.WrapH(promhttp.HandlerFor(deps.gatherer, promhttp.HandlerOpts{})))

	return router
}

// setGinMode selects gin's debug or release mode.
func setGinMode(debug bool) {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
}

// checkSecret opens the sealed secret key and warns when it is the
// built-in default or too short. The plaintext is wiped before returning.
func checkSecret(cfg *config.Config, logger *logging.Logger) error {
	key, err := cfg.SecretKey()
	if err != nil {
		return err
	}
	defer key.Destroy()

	switch {
	case cfg.UsingDefaultSecret():
		logger.Warn("SECRET_KEY is not set, using the insecure default key",
			"env", config.EnvSecretKey)
	case key.Size() < minSecretKeyLength:
		logger.Warn("SECRET_KEY is shorter than recommended",
			"length", key.Size(),
			"recommended_min", minSecretKeyLength)
	}
	return nil
}

// run starts the server and blocks until ctx is cancelled or the listener
// fails, then drains requests and releases the store and tracer.
func run(ctx context.Context, cfg *config.Config) error {
	defer memguard.Purge()

	logger := logging.New(cfg.Logging())
	slog.SetDefault(logger.Slog())

	if err := checkSecret(cfg, logger); err != nil {
		return err
	}

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		logger.Warn("Tracing disabled", "error", err)
		shutdownTracer = func(context.Context) error { return nil }
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("Tracer shutdown failed", "error", err)
		}
	}()

	seed, err := registry.LoadSeed(cfg.SeedFile)
	if err != nil {
		logger.Error("Failed to load seed records", "path", cfg.SeedFile, "error", err)
		return err
	}
	store, err := registry.NewStore(cfg.StoreBackend, seed, logger.Slog())
	if err != nil {
		logger.Error("Failed to create store", "backend", cfg.StoreBackend, "error", err)
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Store close failed", "error", err)
		}
	}()

	setGinMode(cfg.Debug)
	router := newRouter(routerDeps{
		cfg:      cfg,
		store:    store,
		logger:   logger.Slog(),
		registry: prometheus.DefaultRegisterer,
		gatherer: prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting people registry",
			"address", srv.Addr,
			"store", cfg.StoreBackend,
			"records", len(seed),
			"tracing", cfg.OTelEndpoint != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down people registry")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return err
	}
	logger.Info("Server stopped")
	return nil
}
