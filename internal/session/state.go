// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// StateCookieName carries the OAuth state between redirect and callback.
	StateCookieName = "pf_oauth_state"

	// StateTTL bounds how long a login redirect stays valid.
	StateTTL = 10 * time.Minute

	stateKeyPrefix  = "oauth_state:"
	stateCookiePath = "/api/auth"
)

// ErrInvalidState is returned when an OAuth callback carries a state that
// was never issued, was already used, expired, or does not match the
// browser's cookie.
var ErrInvalidState = errors.New("invalid oauth state")

// SaveState issues a single-use OAuth state, records it in Valkey and in a
// short-lived cookie, and returns it for the provider redirect.
func (s *Store) SaveState(ctx context.Context, w http.ResponseWriter) (string, error) {
	state := uuid.NewString()
	if err := s.client.Set(ctx, stateKeyPrefix+state, "1", StateTTL).Err(); err != nil {
		return "", fmt.Errorf("state store: %w", err)
	}

	s.setCookie(w, StateCookieName, state, stateCookiePath, StateTTL)
	return state, nil
}

// ConsumeState checks got against the cookie and Valkey and deletes it so
// it cannot be replayed. The state cookie is cleared in every case.
func (s *Store) ConsumeState(ctx context.Context, w http.ResponseWriter, r *http.Request, got string) error {
	s.clearCookie(w, StateCookieName, stateCookiePath)

	want, ok := cookieValue(r, StateCookieName)
	if !ok || got == "" {
		return ErrInvalidState
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		return ErrInvalidState
	}

	err := s.client.GetDel(ctx, stateKeyPrefix+got).Err()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidState
	}
	if err != nil {
		return fmt.Errorf("state consume: %w", err)
	}
	return nil
}
