package extract

import "strings"

// Class is the extraction bucket of a tag name.
type Class int

const (
	Unclassified Class = iota
	Title
	Block
	Inline
)

func (c Class) String() string {
	switch c {
	case Title:
		return "title"
	case Block:
		return "block"
	case Inline:
		return "inline"
	default:
		return "unclassified"
	}
}

// Default tag sets.
var (
	DefaultTitleTags  = []string{"h1", "title"}
	DefaultBlockTags  = []string{"p", "div", "li", "ul", "section", "br"}
	DefaultInlineTags = []string{"em", "span", "a", "strong", "code", "sub", "sup"}
)

// Classifier maps tag names to a Class. It is immutable once built and safe
// to share between goroutines.
type Classifier struct {
	title  map[string]struct{}
	block  map[string]struct{}
	inline map[string]struct{}
}

// NewClassifier builds a classifier from three tag lists. Names are
// lowercased. A name present in several lists resolves as title, then block,
// then inline.
func NewClassifier(title, block, inline []string) *Classifier {
	return &Classifier{
		title:  tagSet(title),
		block:  tagSet(block),
		inline: tagSet(inline),
	}
}

// DefaultClassifier returns a classifier over the default tag sets.
func DefaultClassifier() *Classifier {
	return NewClassifier(DefaultTitleTags, DefaultBlockTags, DefaultInlineTags)
}

// Classify returns the class of tag name.
func (c *Classifier) Classify(name string) Class {
	name = strings.ToLower(name)
	switch {
	case has(c.title, name):
		return Title
	case has(c.block, name):
		return Block
	case has(c.inline, name):
		return Inline
	default:
		return Unclassified
	}
}

// IsBlock reports whether closing name ends a line.
func (c *Classifier) IsBlock(name string) bool {
	return c.Classify(name) == Block
}

func tagSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func has(set map[string]struct{}, name string) bool {
	_, ok := set[name]
	return ok
}
