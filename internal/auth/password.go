// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/scrypt"
)

// Parameters of the legacy "hexhash.salt" scrypt format. The salt is used
// as its literal hex string, not decoded.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
)

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies password against a stored hash. Both bcrypt hashes
// and legacy scrypt hashes are accepted; comparison is constant time.
func CheckPassword(stored, password string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return checkLegacyScrypt(stored, password)
}

// NeedsRehash reports whether stored uses the legacy format and should be
// replaced with a bcrypt hash after a successful login.
func NeedsRehash(stored string) bool {
	return !strings.HasPrefix(stored, "$2")
}

func checkLegacyScrypt(stored, password string) bool {
	hashed, salt, ok := strings.Cut(stored, ".")
	if !ok || salt == "" {
		return false
	}
	want, err := hex.DecodeString(hashed)
	if err != nil || len(want) != scryptKeyLen {
		return false
	}
	got, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(want, got) == 1
}
