package helper

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Underscore converts a Go field name such as "CoAuthors" to "co_authors".
func Underscore(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Slugify lower-cases title and joins its alphanumeric runs with dashes.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// NewSlug builds a unique slug from a title plus a random suffix.
func NewSlug(title string) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	base := Slugify(title)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
