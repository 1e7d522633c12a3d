// Package normalize derives stable cache-key fragments from raw query
// text. Two queries that differ only in case, punctuation or whitespace
// style normalize identically; that equality is the dedup guarantee the
// cache keys rely on.
package normalize

import (
	"regexp"
	"strings"
)

// MaxLen caps normalized queries so store keys stay bounded.
const MaxLen = 100

var (
	// keep word characters, whitespace and hyphens; drop everything else
	nonWord = regexp.MustCompile(`[^\w\s-]`)
	spaces  = regexp.MustCompile(`\s+`)
	hyphens = regexp.MustCompile(`-+`)
)

// Query maps raw user text to a normalized cache-key fragment. It is pure
// and total: input that normalizes to nothing yields "".
func Query(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = nonWord.ReplaceAllString(s, "")
	s = spaces.ReplaceAllString(s, "-")
	s = hyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxLen {
		// only [a-z0-9_-] survive the strip, so byte truncation is rune-safe
		s = strings.TrimRight(s[:MaxLen], "-")
	}
	return s
}
