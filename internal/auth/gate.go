// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth decides who may become the site's administrator. It verifies
// passwords and TOTP codes, and completes the Google OAuth flow against an
// optional single-address allowlist.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"portfolio/internal/models"
	"portfolio/internal/store"
)

var (
	// ErrNotAllowed is returned when an OAuth identity is outside the allowlist.
	ErrNotAllowed = errors.New("account is not allowed")
	// ErrInvalidCredentials covers unknown users, wrong passwords and bad codes.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTOTPRequired means the password was correct but a code is needed.
	ErrTOTPRequired = errors.New("totp code required")
	// ErrProviderDisabled is returned when no OAuth provider is configured.
	ErrProviderDisabled = errors.New("oauth provider not configured")
	// ErrProvider wraps failures talking to the identity provider.
	ErrProvider = errors.New("identity provider failure")
)

// Profile is the identity an OAuth provider vouches for.
type Profile struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// Provider is an OAuth identity provider.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// Gate authenticates administrators.
type Gate struct {
	provider   Provider
	users      store.Users
	adminEmail string
}

// NewGate creates a Gate. provider may be nil when OAuth login is disabled.
// An empty adminEmail admits any identity the provider returns.
func NewGate(provider Provider, users store.Users, adminEmail string) *Gate {
	return &Gate{
		provider:   provider,
		users:      users,
		adminEmail: strings.TrimSpace(adminEmail),
	}
}

// OAuthEnabled reports whether a provider is configured.
func (g *Gate) OAuthEnabled() bool {
	return g.provider != nil
}

// AuthCodeURL returns the provider consent URL carrying state.
func (g *Gate) AuthCodeURL(state string) (string, error) {
	if g.provider == nil {
		return "", ErrProviderDisabled
	}
	return g.provider.AuthCodeURL(state), nil
}

// Allowed reports whether an identity with the given email may sign in.
func (g *Gate) Allowed(p *Profile) bool {
	if g.adminEmail == "" {
		return true
	}
	return p.EmailVerified && p.Email == g.adminEmail
}

// Complete exchanges an authorization code and returns the matching user,
// creating one on first sign-in. The allowlist is enforced before any user
// is looked up or created.
func (g *Gate) Complete(ctx context.Context, code string) (*models.User, error) {
	if g.provider == nil {
		return nil, ErrProviderDisabled
	}
	if code == "" {
		return nil, fmt.Errorf("%w: missing code", ErrProvider)
	}

	profile, err := g.provider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	if profile.Subject == "" {
		return nil, fmt.Errorf("%w: profile without subject", ErrProvider)
	}
	if !g.Allowed(profile) {
		slog.Warn("oauth login rejected", "email", profile.Email)
		return nil, ErrNotAllowed
	}

	user, err := g.users.FindByGoogleID(ctx, profile.Subject)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = g.users.Create(ctx, models.NewUser{
		Username: usernameFor(profile),
		GoogleID: profile.Subject,
		Email:    profile.Email,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("admin user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// PasswordLogin verifies username and password, then the TOTP code when the
// account has one enabled.
func (g *Gate) PasswordLogin(ctx context.Context, username, password, code string) (*models.User, error) {
	user, err := g.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasPassword() || !CheckPassword(*user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if user.TOTPEnabled {
		if code == "" {
			return nil, ErrTOTPRequired
		}
		if user.TOTPSecret == nil || !ValidateCode(code, *user.TOTPSecret) {
			return nil, ErrInvalidCredentials
		}
	}
	if NeedsRehash(*user.PasswordHash) {
		g.upgradeHash(ctx, user, password)
	}
	return user, nil
}

// upgradeHash replaces a legacy scrypt hash with bcrypt. Failure only
// postpones the upgrade to the next login.
func (g *Gate) upgradeHash(ctx context.Context, user *models.User, password string) {
	hash, err := HashPassword(password)
	if err == nil {
		err = g.users.SetPasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		slog.Warn("password hash upgrade failed", "user_id", user.ID, "error", err)
		return
	}
	user.PasswordHash = &hash
	slog.Info("password hash upgraded", "user_id", user.ID)
}

func usernameFor(p *Profile) string {
	switch {
	case p.Email != "":
		return p.Email
	case p.Name != "":
		return p.Name
	default:
		return "google:" + p.Subject
	}
}
