// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns display names into lowercase ASCII path segments.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen caps generated slugs.
const MaxLen = 64

// Generate folds diacritics, lowercases s and joins every run of ASCII
// letters and digits with a single hyphen.
// Example: "Résumé – Jane Doe (2026)" → "resume-jane-doe-2026"
func Generate(s string) string {
	// Transformers keep state, so each call builds its own chain.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	gap := false
	for _, r := range strings.ToLower(folded) {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			gap = true
			continue
		}
		if gap && b.Len() > 0 {
			b.WriteByte('-')
		}
		gap = false
		b.WriteRune(r)
	}
	return truncate(b.String())
}

// truncate cuts at the last hyphen that keeps at least half of MaxLen.
func truncate(s string) string {
	if len(s) <= MaxLen {
		return s
	}
	s = s[:MaxLen]
	if i := strings.LastIndexByte(s, '-'); i >= MaxLen/2 {
		s = s[:i]
	}
	return strings.TrimRight(s, "-")
}
