package markup

import (
	"strings"
	"unicode"

	"hfc/markup/entity"
)

const (
	maxEntityDigits = 7  // largest numeric entity is 7 digits
	maxEntityName   = 10 // longest named entity we recognize
)

// Lexer scans loose HTML text one token at a time. It holds a single
// forward cursor with one character of lookahead plus the previous character
// (needed for the comment-termination heuristics), so it is not reusable or
// shareable across concurrent token requests.
//
// Character entities are decoded at the character-advance primitive: a
// decoded '<', '>' or quote is flagged so it is never mistaken for a real
// markup delimiter.
type Lexer struct {
	input []rune

	next         rune // current character
	nextIsEntity bool // next came from entity decoding
	nextEOF      bool

	lookAhead    rune
	lookAheadEOF bool
	lookAheadPos int

	prev rune

	// Opening tags mark the following whitespace insignificant, closing and
	// self-closing tags keep it. Pretty-printed HTML round-trips only when
	// this asymmetry is preserved.
	ignoreNextWhitespace bool
}

// NewLexer creates a lexer over the given text, positioned at the first
// character.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:                []rune(input),
		next:                 ' ',
		ignoreNextWhitespace: true,
	}
	l.readLookAhead()
	l.advance()
	return l
}

// AtEOF reports whether the input is exhausted. Callers must check it before
// requesting another token.
func (l *Lexer) AtEOF() bool {
	return l.nextEOF
}

// NextContentToken returns the next token in text content: Text, Comment,
// an opening/closing tag start, or EOF. Directives, CDATA blocks and
// processing instructions are skipped; skipping may produce an empty Text
// token, which callers should treat as "nothing here, ask again".
func (l *Lexer) NextContentToken() Token {
	if l.nextEOF {
		return Token{Kind: EOF}
	}

	if l.atTagStart() {
		if l.lookAhead == '/' && !l.lookAheadEOF {
			l.advance()
			l.advance()
			// Whitespace after a closing tag is significant.
			l.ignoreNextWhitespace = false
			return Token{Kind: ClosingTagStart, Text: "</"}
		}
		l.advance()
		l.ignoreNextWhitespace = true
		return Token{Kind: OpeningTagStart, Text: "<"}
	}

	if l.atDirectiveStart() {
		l.advance() // now at '!' or '?'
		switch {
		case l.lookAhead == '[' && !l.lookAheadEOF:
			l.skipDynamicContent()
			return Token{Kind: Text}
		case l.lookAhead == '-' && !l.lookAheadEOF:
			return l.readComment()
		default:
			l.skipUnknownDirective()
			return Token{Kind: Text}
		}
	}

	var text strings.Builder
	for !l.atTagStart() && !l.atDirectiveStart() && !l.nextEOF {
		if l.next == '<' && !l.nextIsEntity && l.lookAhead == '?' {
			l.skipProcessingInstruction()
			continue
		}
		if l.next <= ' ' {
			// Any run of control characters and spaces collapses to a
			// single space; it is dropped entirely right after an opening
			// tag.
			if !l.ignoreNextWhitespace {
				text.WriteRune(' ')
			}
			l.ignoreNextWhitespace = true
		} else {
			text.WriteRune(l.next)
			l.ignoreNextWhitespace = false
		}
		l.advance()
	}
	return Token{Kind: Text, Text: text.String()}
}

// NextTagToken returns the next token inside a tag: Name, TagEnd,
// EmptyTagEnd or a single-character Atom for anything unexpected.
func (l *Lexer) NextTagToken() Token {
	l.skipWhitespace()
	if l.nextEOF {
		return Token{Kind: EOF}
	}

	switch {
	case l.next == '>' && !l.nextIsEntity:
		l.advance()
		return Token{Kind: TagEnd, Text: ">"}
	case l.next == '/' && l.lookAhead == '>' && !l.lookAheadEOF:
		l.advance()
		l.advance()
		// Self-closing tags keep the whitespace that follows them.
		l.ignoreNextWhitespace = false
		return Token{Kind: EmptyTagEnd, Text: "/>"}
	case isNameStart(l.next):
		var name strings.Builder
		for !l.nextEOF && isNameChar(l.next) {
			name.WriteRune(l.next)
			l.advance()
		}
		return Token{Kind: Name, Text: name.String()}
	default:
		ch := l.next
		l.advance()
		return Token{Kind: Atom, Text: string(ch)}
	}
}

// NextEqualSignToken never fails: if the source omits the '=' between an
// attribute name and value, the token is synthesized so the caller can
// recover from malformed attribute syntax.
func (l *Lexer) NextEqualSignToken() Token {
	l.skipWhitespace()
	if !l.nextEOF && l.next == '=' && !l.nextIsEntity {
		l.advance()
	}
	return Token{Kind: EqualSign, Text: "="}
}

// NextAtomToken returns a best-effort attribute value: a quoted atom runs to
// the matching quote (or EOF), an unquoted one to the next whitespace or '>'.
func (l *Lexer) NextAtomToken() Token {
	l.skipWhitespace()
	if l.nextEOF {
		return Token{Kind: EOF}
	}

	var text strings.Builder
	if (l.next == '\'' || l.next == '"') && !l.nextIsEntity {
		quote := l.next
		l.advance()
		for !l.nextEOF && !(l.next == quote && !l.nextIsEntity) {
			text.WriteRune(l.next)
			l.advance()
		}
		if !l.nextEOF {
			l.advance() // closing quote
		}
		return Token{Kind: Atom, Text: text.String()}
	}

	for !l.nextEOF && !isWhitespace(l.next) && l.next != '>' {
		text.WriteRune(l.next)
		l.advance()
	}
	return Token{Kind: Atom, Text: text.String()}
}

func (l *Lexer) atTagStart() bool {
	return !l.nextEOF && l.next == '<' && !l.nextIsEntity &&
		!l.lookAheadEOF && (l.lookAhead == '/' || unicode.IsLetter(l.lookAhead))
}

func (l *Lexer) atDirectiveStart() bool {
	return !l.nextEOF && l.next == '<' && !l.nextIsEntity &&
		!l.lookAheadEOF && (l.lookAhead == '!' || l.lookAhead == '?')
}

func (l *Lexer) skipWhitespace() {
	for !l.nextEOF && isWhitespace(l.next) {
		l.advance()
	}
}

// advance moves the cursor one character forward, decoding a numeric or
// named entity if one starts at the new position. Advancing past the end of
// the stream is a contract breach, not a data problem.
func (l *Lexer) advance() {
	if l.nextEOF {
		panic("markup: lexer advanced past end of input")
	}

	l.prev = l.next
	l.next = l.lookAhead
	l.nextEOF = l.lookAheadEOF
	l.nextIsEntity = false
	l.readLookAhead()

	if l.nextEOF || l.next != '&' {
		return
	}

	switch {
	case !l.lookAheadEOF && l.lookAhead == '#':
		// Numeric entity: &#DDDDDDD;
		code := 0
		l.readLookAhead() // past '#'
		for i := 0; i < maxEntityDigits && !l.lookAheadEOF && unicode.IsDigit(l.lookAhead); i++ {
			code = 10*code + int(l.lookAhead-'0')
			l.readLookAhead()
		}
		if !l.lookAheadEOF && l.lookAhead == ';' {
			l.readLookAhead()
			l.next = rune(code)
			l.nextIsEntity = true
		} else {
			// Malformed: the digits are already consumed, continue with
			// whatever follows them as literal text.
			l.next = l.lookAhead
			l.nextEOF = l.lookAheadEOF
			l.readLookAhead()
		}

	case !l.lookAheadEOF && unicode.IsLetter(l.lookAhead):
		// Named entity: &name;
		var name strings.Builder
		for name.Len() < maxEntityName && !l.lookAheadEOF &&
			(unicode.IsLetter(l.lookAhead) || unicode.IsDigit(l.lookAhead)) {
			name.WriteRune(l.lookAhead)
			l.readLookAhead()
		}
		if !l.lookAheadEOF && l.lookAhead == ';' && name.Len() > 0 {
			if r, ok := entity.Lookup(name.String()); ok {
				l.next = r
				l.nextIsEntity = true
				l.readLookAhead()
			} else {
				// Unknown name: continue as if the sequence was not an entity.
				l.next = l.lookAhead
				l.nextEOF = l.lookAheadEOF
				l.readLookAhead()
			}
		} else {
			l.next = l.lookAhead
			l.nextEOF = l.lookAheadEOF
		}
	}
}

func (l *Lexer) readLookAhead() {
	if l.lookAheadPos < len(l.input) {
		l.lookAhead = l.input[l.lookAheadPos]
		l.lookAheadEOF = false
		l.lookAheadPos++
	} else {
		l.lookAhead = 0
		l.lookAheadEOF = true
	}
}

// readComment reads a comment body. Real-world HTML frequently terminates
// comments with "!>" instead of "-->", so both are accepted.
func (l *Lexer) readComment() Token {
	// Positioned at '!' with '-' in the lookahead.
	l.advance() // '-'
	l.advance() // '-'
	l.advance() // first content character

	var text strings.Builder
	for {
		for !l.nextEOF &&
			!(l.next == '-' && l.lookAhead == '-') &&
			!(l.next == '!' && l.lookAhead == '>') {
			text.WriteRune(l.next)
			l.advance()
		}
		if l.nextEOF {
			break
		}

		l.advance()
		if l.prev == '-' && l.next == '-' && l.lookAhead == '>' {
			l.advance() // '>'
			break
		}
		if l.prev == '!' && l.next == '>' {
			break
		}
		// Not a terminator after all, keep the character and carry on.
		text.WriteRune(l.prev)
	}

	if !l.nextEOF && l.next == '>' {
		l.advance()
	}
	return Token{Kind: Comment, Text: text.String()}
}

// skipDynamicContent skips a "<![ ... ]>" block (CDATA and friends) verbatim.
func (l *Lexer) skipDynamicContent() {
	// Positioned at '!' with '[' in the lookahead.
	for {
		l.advance()
		if l.nextEOF || (l.next == ']' && l.lookAhead == '>') {
			break
		}
	}
	if !l.nextEOF {
		l.advance() // ']'
		l.advance() // '>'
	}
}

// skipUnknownDirective skips directives like doctype to the next unescaped '>'.
func (l *Lexer) skipUnknownDirective() {
	for {
		l.advance()
		if l.nextEOF || (l.next == '>' && !l.nextIsEntity) {
			break
		}
	}
	if !l.nextEOF {
		l.advance()
	}
}

// skipProcessingInstruction skips "<? ... ?>" (or the sloppy "/>" variant).
func (l *Lexer) skipProcessingInstruction() {
	// Positioned at '<' with '?' in the lookahead.
	l.advance()
	l.advance()
	for !l.nextEOF && !((l.next == '?' || l.next == '/') && l.lookAhead == '>') {
		l.advance()
	}
	if !l.nextEOF {
		l.advance() // '?' or '/'
		l.advance() // '>'
	}
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == ':' ||
		unicode.IsLetter(r) || unicode.IsDigit(r)
}
