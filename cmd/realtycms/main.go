// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the RealtyCMS API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"realtycms/internal/cache"
	"realtycms/internal/config"
	"realtycms/internal/database"
	"realtycms/internal/events"
	"realtycms/internal/handlers"
	"realtycms/internal/middleware"
	"realtycms/internal/router"
	"realtycms/internal/session"
	"realtycms/internal/settings"
	"realtycms/internal/storage"
	"realtycms/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions and the shared settings cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	stores := handlers.NewStores(db)

	// SEO settings: in-process LRU in front of Valkey in front of PostgreSQL.
	settingsCache := cache.NewLayered(
		cache.NewLocal(cache.DefaultLocalSize, cfg.SettingsLocalTTL),
		cache.NewValkeySettings(valkeyClient, cache.DefaultSettingsTTL),
	)
	seo := settings.New(store.NewSeoSettingStore(db), settingsCache, stores.CacheLog)

	// Connect to S3-compatible object storage (optional, uploads answer 503 without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketPublic, cfg.S3BucketPrivate, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"public_bucket", cfg.S3BucketPublic,
			"private_bucket", cfg.S3BucketPrivate,
		)
	} else {
		slog.Warn("s3 storage not configured, media uploads disabled")
	}

	// Moderation events go to Kafka when brokers are configured.
	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		slog.Info("kafka publisher configured", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("closing event publisher", "error", err)
		}
	}()

	commentLimiter := middleware.NewRateLimiter(cfg.CommentRateLimit, time.Minute)
	defer commentLimiter.Stop()

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(stores, storageClient, seo, publisher)
	authHandlers := handlers.NewAuth(sessionStore, stores.Users)
	publicHandlers := handlers.NewPublic(db, stores.Posts, stores.Comments)

	r := router.New(router.Config{
		Sessions:       sessionStore,
		SecureCookies:  secureCookies,
		CommentLimiter: commentLimiter,
	}, adminHandlers, authHandlers, publicHandlers)

	// WriteTimeout covers uploads of the largest accepted file plus the
	// S3 round trip.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
