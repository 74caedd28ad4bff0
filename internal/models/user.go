// Package models defines the records, create payloads and partial updates
// for every entity kind of the portfolio, plus the admin user.
package models

import (
	"errors"
	"time"
)

// User is an account allowed into the admin area. Either PasswordHash or
// GoogleID is always set.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash *string   `json:"-"` // Never serialize the hash
	GoogleID     *string   `json:"googleId,omitempty"`
	Email        *string   `json:"email,omitempty"`
	TOTPSecret   *string   `json:"-"`
	TOTPEnabled  bool      `json:"totpEnabled"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasPassword returns true if the user can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// NewUser holds the fields required to create a user.
type NewUser struct {
	Username     string
	PasswordHash string
	GoogleID     string
	Email        string
}

// ErrNoCredential is returned when a NewUser has neither a password hash
// nor an external identity.
var ErrNoCredential = errors.New("user needs a password hash or a google id")

func (n NewUser) Validate() error {
	if n.Username == "" {
		return NewValidationError("username", "is required")
	}
	if n.PasswordHash == "" && n.GoogleID == "" {
		return ErrNoCredential
	}
	return nil
}

// Record builds the stored user. Empty optional strings become nil.
func (n NewUser) Record(id int64, now time.Time) User {
	return User{
		ID:           id,
		Username:     n.Username,
		PasswordHash: nonEmpty(n.PasswordHash),
		GoogleID:     nonEmpty(n.GoogleID),
		Email:        nonEmpty(n.Email),
		CreatedAt:    now,
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
