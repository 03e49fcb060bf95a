// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textutil

import (
	"strings"

	"github.com/pdiddy/pdf2deck/pkg/types"
)

var (
	boldMarkers   = []string{"bold", "black", "heavy", "semibold", "demibold"}
	italicMarkers = []string{"italic", "oblique"}
	monoMarkers   = []string{"courier", "mono", "consolas"}
	serifMarkers  = []string{"times", "serif", "georgia", "garamond", "roman"}
)

// FontFlags derives span style flags from a PostScript font name such as
// "Helvetica-BoldOblique".
func FontFlags(baseFont string) int {
	name := strings.ToLower(baseFont)
	flags := 0
	if containsAny(name, boldMarkers) {
		flags |= types.FlagBold
	}
	if containsAny(name, italicMarkers) {
		flags |= types.FlagItalic
	}
	if containsAny(name, monoMarkers) {
		flags |= types.FlagMono
	}
	if containsAny(name, serifMarkers) && !strings.Contains(name, "sans") {
		flags |= types.FlagSerif
	}
	return flags
}

// FontFamily strips a subset tag ("ABCDEF+") and a style suffix
// ("-Bold", ",Italic") from a PostScript font name.
func FontFamily(baseFont string) string {
	name := strings.TrimPrefix(baseFont, "/")
	if i := strings.IndexByte(name, '+'); i == 6 {
		name = name[i+1:]
	}
	if i := strings.IndexAny(name, "-,"); i > 0 {
		name = name[:i]
	}
	return name
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
