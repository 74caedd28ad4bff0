// Package cache provides Valkey (Redis-compatible) client initialization
// and the JSON list cache served by the public read endpoints.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

const (
	pingRetries = 5
	pingBackoff = 200 * time.Millisecond
)

// ValkeyOptions locates the Valkey server.
type ValkeyOptions struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (o ValkeyOptions) addr() string {
	return net.JoinHostPort(o.Host, o.Port)
}

// ConnectValkey creates a client and pings it until it answers, retrying
// with exponential backoff while Valkey starts. It gives up when ctx ends.
func ConnectValkey(ctx context.Context, opts ValkeyOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.addr(),
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	backoff := retry.WithMaxRetries(pingRetries, retry.NewExponential(pingBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Debug("valkey not ready", "addr", opts.addr(), "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", opts.addr(), err)
	}

	slog.Info("valkey connected", "addr", opts.addr(), "db", opts.DB)
	return client, nil
}
