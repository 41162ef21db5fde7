package extract

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrMalformedMarkup is returned when the tokenizer cannot make progress,
// which in practice means a token outgrew Options.MaxBuf. Stray ampersands
// and mismatched close tags are not errors.
var ErrMalformedMarkup = errors.New("malformed markup")

// voidElements never have content; written without a trailing slash they
// still close themselves.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Options tunes an Extractor.
type Options struct {
	// MaxBuf bounds the tokenizer buffer in bytes; 0 means unlimited.
	MaxBuf int
}

// Extractor turns chapter markup into a Chapter.
type Extractor struct {
	classifier *Classifier
	opts       Options
}

// New returns an Extractor. A nil classifier uses the default tag sets.
func New(c *Classifier, opts Options) *Extractor {
	if c == nil {
		c = DefaultClassifier()
	}
	return &Extractor{classifier: c, opts: opts}
}

// Extract is New(c, Options{}).Extract(r).
func Extract(r io.Reader, c *Classifier) (Chapter, error) {
	return New(c, Options{}).Extract(r)
}

// Extract streams r once. The reader is not closed.
func (e *Extractor) Extract(r io.Reader) (Chapter, error) {
	// BOMOverride strips a UTF-8 BOM and honours UTF-16 BOMs.
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	z := html.NewTokenizer(decoded)
	if e.opts.MaxBuf > 0 {
		z.SetMaxBuf(e.opts.MaxBuf)
	}

	state := NewState(e.classifier)
	for {
		switch z.Next() {
		case html.ErrorToken:
			err := z.Err()
			switch {
			case errors.Is(err, io.EOF):
				return state.Chapter(), nil
			case errors.Is(err, html.ErrBufferExceeded):
				return Chapter{}, fmt.Errorf("%w: %w", ErrMalformedMarkup, err)
			default:
				return Chapter{}, fmt.Errorf("failed to read markup: %w", err)
			}

		case html.StartTagToken:
			name := tagName(z)
			if voidElements[name] {
				state.Apply(Token{Kind: SelfClosingTag, Name: name})
			} else {
				state.Apply(Token{Kind: StartTag, Name: name})
			}

		case html.SelfClosingTagToken:
			// XHTML writes <script/> and <title/>; without this the tokenizer
			// would read the rest of the document as their raw text.
			z.NextIsNotRawText()
			state.Apply(Token{Kind: SelfClosingTag, Name: tagName(z)})

		case html.EndTagToken:
			name := tagName(z)
			if voidElements[name] {
				// Already closed by its start tag.
				continue
			}
			state.Apply(Token{Kind: EndTag, Name: name})

		case html.TextToken:
			// Text unescapes entities; an ampersand that starts no entity is kept.
			state.Apply(Token{Kind: Text, Text: string(z.Text())})
		}
	}
}

func tagName(z *html.Tokenizer) string {
	name, _ := z.TagName()
	return string(name)
}
