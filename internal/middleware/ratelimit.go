// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Budgets applied by the router.
const (
	GlobalLimit   = 100
	GlobalWindow  = 15 * time.Minute
	AuthLimit     = 10
	AuthWindow    = time.Hour
	ContactLimit  = 5
	ContactWindow = time.Hour
)

// limiterEntry tracks request timestamps for a single client.
type limiterEntry struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// RateLimiter limits requests per client IP over a sliding window.
type RateLimiter struct {
	name      string
	mu        sync.RWMutex
	clients   map[string]*limiterEntry
	limit     int
	window    time.Duration
	message   string
	// proxyHops is the number of reverse proxies in front of the server
	// whose forwarding headers are trusted.
	proxyHops int
	now       func() time.Time
	stopCh    chan struct{}
	stop      sync.Once
}

// LimiterOption configures a RateLimiter.
type LimiterOption func(*RateLimiter)

// WithTrustedProxyHops keys clients by the address the nearest hops
// reverse proxies reported. Zero, the default, uses the socket peer only.
func WithTrustedProxyHops(hops int) LimiterOption {
	return func(rl *RateLimiter) {
		if hops > 0 {
			rl.proxyHops = hops
		}
	}
}

// NewRateLimiter creates a limiter allowing limit requests per window.
// message is the error text of the 429 response. A background goroutine
// drops idle clients until Stop is called.
func NewRateLimiter(name string, limit int, window time.Duration, message string, opts ...LimiterOption) *RateLimiter {
	rl := &RateLimiter{
		name:    name,
		clients: make(map[string]*limiterEntry),
		limit:   limit,
		window:  window,
		message: message,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop terminates the background cleanup goroutine. Safe to call twice.
func (rl *RateLimiter) Stop() {
	rl.stop.Do(func() { close(rl.stopCh) })
}

// allow records a request for key and reports whether it is within budget.
// When denied, it also returns how long until the oldest request leaves the
// window.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.RLock()
	entry, exists := rl.clients[key]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		entry, exists = rl.clients[key]
		if !exists {
			entry = &limiterEntry{}
			rl.clients[key] = entry
		}
		rl.mu.Unlock()
	}

	now := rl.now()
	cutoff := now.Add(-rl.window)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	valid := entry.timestamps[:0]
	for _, ts := range entry.timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	entry.timestamps = valid

	if len(entry.timestamps) >= rl.limit {
		return false, entry.timestamps[0].Sub(cutoff)
	}

	entry.timestamps = append(entry.timestamps, now)
	return true, 0
}

// cleanup removes entries with no recent activity.
func (rl *RateLimiter) cleanup() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, entry := range rl.clients {
		entry.mu.Lock()
		n := len(entry.timestamps)
		idle := n == 0 || !entry.timestamps[n-1].After(cutoff)
		entry.mu.Unlock()

		if idle {
			delete(rl.clients, key)
		}
	}
}

// Middleware rejects over-budget clients with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r, rl.proxyHops)
		ok, retry := rl.allow(ip)
		if !ok {
			slog.Warn("rate limited", "limiter", rl.name, "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			writeError(w, http.StatusTooManyRequests, rl.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the address to key a request by. With trustedHops == 0
// forwarding headers are ignored. Otherwise the hop chain is the
// X-Forwarded-For entries followed by the socket peer, and the client is the
// entry trustedHops positions from its right end: everything further left
// was supplied by the client and may be forged. X-Real-IP stands in when a
// trusted proxy sent no X-Forwarded-For.
func ClientIP(r *http.Request, trustedHops int) string {
	peer := remoteHost(r)
	if trustedHops <= 0 {
		return peer
	}

	var chain []string
	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		for _, list := range xff {
			for _, hop := range strings.Split(list, ",") {
				chain = append(chain, strings.TrimSpace(hop))
			}
		}
	} else if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		chain = append(chain, xri)
	}
	chain = append(chain, peer)

	i := len(chain) - 1 - trustedHops
	if i < 0 {
		i = 0
	}
	if net.ParseIP(chain[i]) == nil {
		return peer
	}
	return chain[i]
}

func remoteHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
