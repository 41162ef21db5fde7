package output

import (
	"fmt"
	"strings"
)

// HeadingStyle selects how chapter headings are numbered.
type HeadingStyle string

const (
	HeadingPlain   HeadingStyle = "plain"   // title only
	HeadingChinese HeadingStyle = "chinese" // 第N章 title
	HeadingNumber  HeadingStyle = "number"  // zero-padded N title
)

// ParseHeadingStyle validates a style name. The empty string is plain.
func ParseHeadingStyle(s string) (HeadingStyle, error) {
	switch HeadingStyle(strings.ToLower(strings.TrimSpace(s))) {
	case "", HeadingPlain:
		return HeadingPlain, nil
	case HeadingChinese:
		return HeadingChinese, nil
	case HeadingNumber:
		return HeadingNumber, nil
	}
	return "", fmt.Errorf("unknown heading style %q (want plain, chinese or number)", s)
}

// Heading numbers chapter titles. Numbering begins at StartNumber on the
// StartChapter-th chapter (1-based); earlier chapters keep their bare title.
type Heading struct {
	Style        HeadingStyle
	StartNumber  int
	StartChapter int
	Digits       int
}

// Format returns the heading for the chapter at 0-based index.
func (h Heading) Format(index int, title string) string {
	ordinal := index + 1
	start := h.StartChapter
	if start < 1 {
		start = 1
	}
	if h.Style == HeadingPlain || h.Style == "" || ordinal < start {
		return title
	}

	n := h.StartNumber + ordinal - start
	var prefix string
	switch h.Style {
	case HeadingChinese:
		prefix = fmt.Sprintf("第%d章", n)
	case HeadingNumber:
		prefix = fmt.Sprintf("%0*d", h.Digits, n)
	default:
		return title
	}
	if title == "" {
		return prefix
	}
	return prefix + " " + title
}
