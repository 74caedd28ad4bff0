// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// list.go provides a Valkey-backed cache of encoded list responses. Public
// GET /api/{kind} requests are served from it when warm; any mutation of a
// kind drops that kind's entry and bumps its version, so a list read before
// the mutation is never written back.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio/internal/metrics"
)

const (
	// listKeyPrefix is the Valkey key prefix for cached list responses.
	listKeyPrefix = "list:"
	// versionKeyPrefix holds the per-kind invalidation counters.
	versionKeyPrefix = "listver:"

	// DefaultListTTL bounds staleness if an invalidation is ever missed.
	DefaultListTTL = 10 * time.Minute
)

// ListCache stores the JSON body of each kind's list endpoint. A nil
// *ListCache is valid and caches nothing.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a list cache backed by the given Valkey client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Get returns the cached body for kind. Errors count as a miss.
func (lc *ListCache) Get(ctx context.Context, kind string) ([]byte, bool) {
	if lc == nil {
		return nil, false
	}
	val, err := lc.client.Get(ctx, listKeyPrefix+kind).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("list cache get error", "kind", kind, "error", err)
		}
		metrics.ListCache.WithLabelValues(kind, "miss").Inc()
		return nil, false
	}
	metrics.ListCache.WithLabelValues(kind, "hit").Inc()
	return val, true
}

// Version returns the kind's invalidation counter. Take it before reading
// the store and hand it to Fill. A negative value means the counter could
// not be read and Fill will skip.
func (lc *ListCache) Version(ctx context.Context, kind string) int64 {
	if lc == nil {
		return -1
	}
	v, err := lc.client.Get(ctx, versionKeyPrefix+kind).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("list cache version error", "kind", kind, "error", err)
		return -1
	}
	return v
}

// Fill stores the encoded list for kind if no invalidation happened since
// version was taken. It reports whether the body was stored.
func (lc *ListCache) Fill(ctx context.Context, kind string, version int64, body []byte) bool {
	if lc == nil || version < 0 {
		return false
	}
	verKey := versionKeyPrefix + kind

	err := lc.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, verKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != version {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, listKeyPrefix+kind, body, lc.ttl)
			return nil
		})
		return err
	}, verKey)

	switch {
	case err == nil:
		return true
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		metrics.ListCache.WithLabelValues(kind, "stale").Inc()
		slog.Debug("list cache fill skipped", "kind", kind)
	default:
		slog.Warn("list cache set error", "kind", kind, "error", err)
	}
	return false
}

var errStaleFill = errors.New("list changed during read")

// Invalidate drops the cached list of kind and bumps its version.
func (lc *ListCache) Invalidate(ctx context.Context, kind string) {
	if lc == nil {
		return
	}
	_, err := lc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKeyPrefix+kind)
		pipe.Del(ctx, listKeyPrefix+kind)
		return nil
	})
	if err != nil {
		slog.Warn("list cache invalidate error", "kind", kind, "error", err)
	}
}

// InvalidateAll removes every cached list by scanning for the prefix. It runs
// at startup, when the lists left by a previous process may no longer match
// the store.
func (lc *ListCache) InvalidateAll(ctx context.Context) {
	if lc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := lc.client.Scan(ctx, cursor, listKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("list cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := lc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("list cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("list cache cleared", "deleted", deleted)
	}
}
