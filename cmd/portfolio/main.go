// Package main is the entry point for the portfolio API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"portfolio/internal/auth"
	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/handlers"
	"portfolio/internal/notify"
	"portfolio/internal/router"
	"portfolio/internal/seed"
	"portfolio/internal/session"
	"portfolio/internal/storage"
	"portfolio/internal/store"
)

func main() {
	// A local .env is optional; real environment variables win.
	_ = godotenv.Load()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	slog.SetDefault(newLogger(cfg))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreBackend,
	)

	// Dependencies may still be starting; wait for them up to StartupTimeout.
	startCtx, cancelStart := context.WithTimeout(context.Background(), cfg.StartupTimeout)
	defer cancelStart()

	stores, db, err := openStores(startCtx, cfg)
	if err != nil {
		slog.Error("failed to open stores", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	// Seed sample content (no-op if data already exists).
	if cfg.Seed {
		opts := seed.Options{AdminUsername: cfg.SeedAdminUsername, AdminPassword: cfg.SeedAdminPassword}
		if err := seed.Run(context.Background(), stores, opts); err != nil {
			slog.Error("failed to seed store", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (list cache, sessions and OAuth state).
	valkeyClient, err := cache.ConnectValkey(startCtx, cache.ValkeyOptions{
		Host:     cfg.ValkeyHost,
		Port:     cfg.ValkeyPort,
		Password: cfg.ValkeyPassword,
		DB:       cfg.ValkeyDB,
	})
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	sessionStore := session.NewStore(valkeyClient, cfg.SessionTTL, !cfg.IsDev())
	listCache := cache.NewListCache(valkeyClient, cache.DefaultListTTL)
	// Lists cached by a previous process or before seeding may not match
	// the store any more.
	listCache.InvalidateAll(startCtx)

	var provider auth.Provider
	if cfg.GoogleEnabled() {
		provider = auth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		slog.Info("google login enabled", "redirect", cfg.GoogleRedirectURL, "allowlist", cfg.AdminEmail != "")
	} else {
		slog.Warn("google login not configured")
	}
	if cfg.LegacyLogin {
		slog.Warn("legacy password login enabled")
	}
	gate := auth.NewGate(provider, stores.Users, cfg.AdminEmail)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.SMTPEnabled() {
		smtp, err := notify.NewSMTP(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.NotifyFrom,
			To:       cfg.NotifyTo,
		})
		if err != nil {
			slog.Error("failed to configure smtp", "error", err)
			os.Exit(1)
		}
		notifier = smtp
		slog.Info("contact notifications enabled", "smtp_host", cfg.SMTPHost)
	} else {
		slog.Warn("smtp not configured, contact notifications disabled")
	}

	// Connect to S3-compatible object storage (optional, the API works without it).
	var files handlers.FileStore
	storageClient, err := storage.New(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		files = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, resume uploads disabled")
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Deps{
		Stores:           stores,
		Cache:            listCache,
		Sessions:         sessionStore,
		Gate:             gate,
		Notifier:         notifier,
		Files:            files,
		MaxResumeBytes:   cfg.MaxResumeBytes,
		NotifyTimeout:    notify.DefaultTimeout,
		LegacyLogin:      cfg.LegacyLogin,
		TrustedProxyHops: cfg.TrustedProxyHops,
	})
	defer r.Stop()

	srv := newServer(cfg.Addr(), r)

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// openStores returns the configured store set. The returned *sql.DB is nil
// for the memory backend.
func openStores(ctx context.Context, cfg *config.Config) (*store.Set, *sql.DB, error) {
	if cfg.StoreBackend == "memory" {
		slog.Warn("using in-memory store, data is lost on restart")
		return store.NewMemorySet(), nil, nil
	}

	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store.NewPostgresSet(db), db, nil
}

// newServer sets the server timeouts. ReadTimeout covers a full résumé
// upload; WriteTimeout runs from the end of the headers, so it must outlast
// the body read plus the S3 put.
func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsDev() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
