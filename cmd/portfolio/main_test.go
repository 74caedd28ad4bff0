package main

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"portfolio/internal/config"
)

func TestNewServerTimeouts(t *testing.T) {
	srv := newServer(":8080", http.NotFoundHandler())

	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 10*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 30*time.Second, srv.ReadTimeout)
	assert.Equal(t, 120*time.Second, srv.IdleTimeout)
	assert.Greater(t, srv.WriteTimeout, srv.ReadTimeout, "writes must outlast a full upload read")
}

func TestNewLoggerLevel(t *testing.T) {
	ctx := context.Background()

	l := newLogger(&config.Config{Env: "production", LogLevel: "debug"})
	assert.True(t, l.Enabled(ctx, slog.LevelDebug))

	l = newLogger(&config.Config{Env: "development", LogLevel: "warn"})
	assert.False(t, l.Enabled(ctx, slog.LevelInfo))
	assert.True(t, l.Enabled(ctx, slog.LevelWarn))

	l = newLogger(&config.Config{Env: "production", LogLevel: "loud"})
	assert.True(t, l.Enabled(ctx, slog.LevelInfo))
	assert.False(t, l.Enabled(ctx, slog.LevelDebug))
}
