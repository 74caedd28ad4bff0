// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"portfolio/internal/models"
	"portfolio/internal/session"
	"portfolio/internal/store"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
	// UserKey is the context key for the signed-in user.
	UserKey contextKey = "user"
)

// LoadSession resolves the session cookie to a user and stores both in the
// request context. The user is reloaded from the store on every request so a
// deleted account loses access immediately. It never rejects a request.
func LoadSession(sessions *session.Store, users store.Users) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := sessions.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session load failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if data == nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.FindByID(r.Context(), data.UserID)
			if err != nil {
				slog.Error("session user lookup failed", "user_id", data.UserID, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, data)
			ctx = context.WithValue(ctx, UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth answers 401 JSON when no user is signed in.
// Must be applied after LoadSession in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromCtx(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFromCtx extracts the session data from the request context.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// UserFromCtx returns the signed-in user, or nil for anonymous requests.
func UserFromCtx(ctx context.Context) *models.User {
	u, _ := ctx.Value(UserKey).(*models.User)
	return u
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, UserKey, u)
}
