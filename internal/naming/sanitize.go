// Package naming turns untrusted tag values into path components that are
// safe on every filesystem a music library is likely to live on.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// Fallback is returned whenever nothing usable survives sanitization.
	Fallback = "Unknown"

	// MaxComponentLength is measured in characters, leaving room under the
	// common 255-byte component limit for the file name below it.
	MaxComponentLength = 200
)

const reservedChars = `<>:"/\|?*`

// Sanitize returns a non-empty path component derived from raw. Reserved
// characters are replaced with underscores rather than dropped so adjacent
// words do not run together.
func Sanitize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return Fallback
	}

	// Edge whitespace is stripped before control characters are replaced,
	// so a stray trailing newline never becomes an underscore.
	name := strings.TrimFunc(norm.NFC.String(raw), isEdgeTrimmed)
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(reservedChars, r) || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, name)
	name = strings.TrimFunc(name, isEdgeTrimmed)

	if runes := []rune(name); len(runes) > MaxComponentLength {
		name = strings.TrimRightFunc(string(runes[:MaxComponentLength]), isEdgeTrimmed)
	}

	if name == "" {
		return Fallback
	}
	return name
}

// IsFallback reports whether s is the value Sanitize substitutes for
// unusable input.
func IsFallback(s string) bool {
	return s == Fallback
}

func isEdgeTrimmed(r rune) bool {
	return r == '.' || unicode.IsSpace(r)
}
