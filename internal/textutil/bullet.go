// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// BulletGlyphs are the leading characters recognised as list bullets, in
// the order they are tried when stripping.
var BulletGlyphs = []string{"•", "·", "○", "●", "▪", "▫", "◦", "-", "*"}

// IsBulletCharacter reports whether the trimmed text begins with a bullet
// glyph.
func IsBulletCharacter(text string) bool {
	return LeadingBullet(text) != ""
}

// LeadingBullet returns the bullet glyph that starts the trimmed text, or
// "" if there is none.
func LeadingBullet(text string) string {
	t := strings.TrimSpace(text)
	for _, g := range BulletGlyphs {
		if strings.HasPrefix(t, g) {
			return g
		}
	}
	return ""
}

// CleanBulletText trims text, removes one leading bullet glyph if present
// and trims again.
func CleanBulletText(text string) string {
	t := strings.TrimSpace(text)
	if g := LeadingBullet(t); g != "" {
		return strings.TrimSpace(strings.TrimPrefix(t, g))
	}
	return t
}

// NormalizeText returns text in Unicode NFC form.
func NormalizeText(text string) string {
	return norm.NFC.String(text)
}
