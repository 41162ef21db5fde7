package extract

import "strings"

// Chapter is the text reconstructed from one chapter document.
type Chapter struct {
	Title   string
	Content string
}

// TokenKind identifies a markup token fed to State.
type TokenKind int

const (
	StartTag TokenKind = iota
	EndTag
	SelfClosingTag
	Text
)

// Token is a tokenizer-independent markup event. Name is a lowercase tag
// name; Text is entity-decoded character data.
type Token struct {
	Kind TokenKind
	Name string
	Text string
}

// State is the extraction fold over a token sequence: a stack of open tags
// plus the accumulated title and content.
type State struct {
	classifier *Classifier
	stack      []string
	title      string
	content    strings.Builder
}

// NewState returns an empty state classifying tags with c.
func NewState(c *Classifier) *State {
	return &State{classifier: c}
}

// Apply folds one token into the state.
func (s *State) Apply(tok Token) {
	switch tok.Kind {
	case StartTag:
		s.stack = append(s.stack, tok.Name)
	case SelfClosingTag:
		s.stack = append(s.stack, tok.Name)
		s.close(tok.Name)
	case EndTag:
		s.close(tok.Name)
	case Text:
		s.text(tok.Text)
	}
}

// close pops the innermost open tag without checking it against name, so
// mismatched markup degrades instead of failing.
func (s *State) close(name string) {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	if s.classifier.IsBlock(name) {
		s.content.WriteByte('\n')
	}
}

// text routes character data by the innermost open tag only.
func (s *State) text(t string) {
	if len(s.stack) == 0 {
		return
	}
	switch s.classifier.Classify(s.stack[len(s.stack)-1]) {
	case Title:
		s.title = t
	case Block, Inline:
		s.content.WriteString(t)
	}
}

// Depth returns the number of currently open tags.
func (s *State) Depth() int {
	return len(s.stack)
}

// Chapter returns the text accumulated so far.
func (s *State) Chapter() Chapter {
	return Chapter{Title: s.title, Content: s.content.String()}
}
