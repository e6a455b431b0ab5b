// Package markup implements the character-level lexical analyzer for loose
// HTML text and the bridge to the tolerant tree builder. The lexer decodes
// character entities while scanning, collapses whitespace runs and survives
// the usual clipboard-HTML damage (mis-terminated comments, naked attribute
// values, stray directives).
package markup

// Kind identifies the type of a lexical token.
type Kind int

const (
	// EOF is reported once the input is exhausted. Requesting further
	// tokens after EOF is a caller bug.
	EOF Kind = iota
	// OpeningTagStart is "<" before a tag name.
	OpeningTagStart
	// ClosingTagStart is "</".
	ClosingTagStart
	// TagEnd is ">".
	TagEnd
	// EmptyTagEnd is "/>".
	EmptyTagEnd
	// EqualSign separates an attribute name from its value. The lexer
	// synthesizes it when the source omits one.
	EqualSign
	// Name is a tag or attribute name.
	Name
	// Atom is an attribute value, quoted or not.
	Atom
	// Text is character data between tags, whitespace-collapsed and
	// entity-decoded.
	Text
	// Comment is the content of a "<!-- -->" (or sloppily terminated) comment.
	Comment
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case OpeningTagStart:
		return "OpeningTagStart"
	case ClosingTagStart:
		return "ClosingTagStart"
	case TagEnd:
		return "TagEnd"
	case EmptyTagEnd:
		return "EmptyTagEnd"
	case EqualSign:
		return "EqualSign"
	case Name:
		return "Name"
	case Atom:
		return "Atom"
	case Text:
		return "Text"
	case Comment:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Token is a single lexical token with its decoded text.
type Token struct {
	Kind Kind
	Text string
}
