// Package slug derives URL-safe note slugs from titles.
package slug

import (
	"strconv"
	"strings"

	goslug "github.com/gosimple/slug"
)

// Fallback is used when a title has no sluggable characters.
const Fallback = "untitled"

// Make converts a title to a lower-case, dash-separated slug.
// Accented letters are transliterated ("Réunion" becomes "reunion").
func Make(title string) string {
	s := goslug.Make(strings.TrimSpace(title))
	if s == "" {
		return Fallback
	}
	return s
}

// WithSuffix returns the n-th collision candidate for base: base itself for
// n <= 1, then base-2, base-3, and so on.
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
