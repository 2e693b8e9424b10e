package domain

import (
	"strings"
	"unicode"
)

// Slugify turns a display name into a URL-safe slug: lowercase ASCII
// letters and digits with single hyphens between words. Tags and
// categories are identified by slug, so "CI / CD" and "ci-cd" collide
// on purpose.
func Slugify(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(name))
	prevHyphen := true // suppress a leading hyphen
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if r > unicode.MaxASCII {
				continue
			}
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// NormalizeSearch prepares a free-text search term: trims whitespace
// and collapses runs of spaces so ILIKE patterns stay predictable.
func NormalizeSearch(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
