package extract

import (
	"strings"
	"unicode"
)

// StripLeadingTitle removes a copy of title that opens content, together
// with the whitespace around it. Only the first occurrence at the very start
// is removed; content is returned unchanged otherwise.
func StripLeadingTitle(content, title string) string {
	if title == "" {
		return content
	}
	rest := strings.TrimLeftFunc(content, unicode.IsSpace)
	if !strings.HasPrefix(rest, title) {
		return content
	}
	return strings.TrimLeftFunc(rest[len(title):], unicode.IsSpace)
}
