// Package session keeps the administrator's login and the OAuth login state
// in Valkey. The browser only ever holds an opaque random identifier.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CookieName names the session cookie.
	CookieName = "pf_session"

	// DefaultTTL is the absolute session lifetime when none is configured.
	DefaultTTL = 24 * time.Hour

	sessionKeyPrefix = "session:"
	idBytes          = 32
)

// Data is the stored session payload. The user row is reloaded on every
// request, so only its id is kept here.
type Data struct {
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Store issues, resolves and revokes sessions.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore returns a Store. ttl <= 0 selects DefaultTTL; secure sets the
// Secure attribute on every cookie the store writes.
func NewStore(client *redis.Client, ttl time.Duration, secure bool) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl, secure: secure}
}

// TTL returns the absolute session lifetime.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create starts a session for userID and sets its cookie. The expiry is set
// once here; reads never extend it.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, userID int64) (string, error) {
	id, err := newID()
	if err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	payload, err := json.Marshal(Data{UserID: userID, CreatedAt: time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+id, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session save: %w", err)
	}

	s.setCookie(w, CookieName, id, "/", s.ttl)
	return id, nil
}

// Get resolves the request's session. A missing cookie or an expired or
// unknown id yields (nil, nil).
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	id, ok := cookieValue(r, CookieName)
	if !ok {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("session load: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &data, nil
}

// Destroy revokes the request's session and expires its cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, ok := cookieValue(r, CookieName)
	if !ok {
		return nil
	}
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	s.clearCookie(w, CookieName, "/")
	return nil
}

func (s *Store) setCookie(w http.ResponseWriter, name, value, path string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})
}

// clearCookie writes an immediately expiring cookie (Max-Age=0 on the wire).
func (s *Store) clearCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Path:     path,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func cookieValue(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// newID returns idBytes of crypto randomness, hex encoded.
func newID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
