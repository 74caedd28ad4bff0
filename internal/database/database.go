// Package database opens the PostgreSQL pool and applies the embedded goose
// migrations.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Pool limits.
const (
	MaxOpenConns    = 25
	MaxIdleConns    = 5
	ConnMaxLifetime = 30 * time.Minute
)

const (
	pingRetries = 6
	pingBackoff = 250 * time.Millisecond
)

// Connect opens a pgx-backed pool and pings it until PostgreSQL accepts
// connections or ctx ends.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}
	db.SetMaxOpenConns(MaxOpenConns)
	db.SetMaxIdleConns(MaxIdleConns)
	db.SetConnMaxLifetime(ConnMaxLifetime)

	backoff := retry.WithMaxRetries(pingRetries, retry.NewExponential(pingBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			slog.Debug("database not ready", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected", "max_open_conns", MaxOpenConns)
	return db, nil
}

// Migrations returns the embedded migration files rooted at their directory.
func Migrations() (fs.FS, error) {
	return fs.Sub(embedMigrations, "migrations")
}

// Migrate applies every pending migration. It holds no package-level goose
// state, so concurrent callers with different databases do not interfere.
func Migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := Migrations()
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, r := range results {
		slog.Info("migration applied", "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	slog.Info("database schema ready", "version", version, "applied", len(results))
	return nil
}
