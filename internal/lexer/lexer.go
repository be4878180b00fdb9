package lexer

import (
	"github.com/callisto-lang/callisto/internal/compiler_errors"
	"github.com/callisto-lang/callisto/internal/span"
)

// Lexer turns a source file's bytes into a flat token stream. It never
// looks back past the current position except via unread, which steps back
// exactly one byte to undo a lookahead check.
type Lexer struct {
	file string
	buf  []byte
	pos  int

	line, col int

	eh compiler_errors.ErrorHandler
}

func NewLexer(file string, buf []byte, eh compiler_errors.ErrorHandler) *Lexer {
	return &Lexer{
		file: file,
		buf:  buf,

		line: 1,
		col:  1,

		eh: eh,
	}
}

// Tokenize scans the whole buffer and returns its token stream terminated
// by a single EOF token, or the first error the pass recorded.
func (l *Lexer) Tokenize() (tokens []Token, err error) {
	defer func() {
		if e := l.eh.FailNow(); e != nil {
			err = e
			tokens = nil
		}
	}()
	defer compiler_errors.Recover()

	result := make([]Token, 0)

	for l.hasChars() {
		switch {
		case l.isCurrSkippable():
			l.skipWhitespace()

		case l.isCurrComment():
			l.skipComment()

		case l.isTagStart():
			result = append(result, l.processTaggedString())

		case l.read() == '"':
			result = append(result, l.processString(""))

		case l.read() == '[':
			result = append(result, l.processSingle(LSquare))

		case l.read() == ']':
			result = append(result, l.processSingle(RSquare))

		case l.read() == '&':
			result = append(result, l.processSingle(Ampersand))

		default:
			result = append(result, l.processRun())
		}
	}

	result = append(result, Token{Kind: EOF, Span: span.New(l.file, l.line, l.col, 0)})
	return result, nil
}

func (l *Lexer) hasChars() bool { return l.pos < len(l.buf) }
func (l *Lexer) read() byte     { return l.buf[l.pos] }

func (l *Lexer) peek(ahead int) (byte, bool) {
	i := l.pos + ahead
	if i < 0 || i >= len(l.buf) {
		return 0, false
	}
	return l.buf[i], true
}

func (l *Lexer) advance() {
	if l.hasChars() && l.buf[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) unread() {
	l.pos--
	l.col--
}

func (l *Lexer) isCurrSkippable() bool {
	switch l.read() {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

func (l *Lexer) skipWhitespace() {
	for l.hasChars() && l.isCurrSkippable() {
		l.advance()
	}
}

func (l *Lexer) isCurrComment() bool {
	if l.read() != '/' {
		return false
	}
	next, ok := l.peek(1)
	return ok && next == '/'
}

func (l *Lexer) skipComment() {
	for l.hasChars() && l.read() != '\n' {
		l.advance()
	}
}

// isCurrDelimiter reports whether the current byte ends a run token: any
// whitespace, a bracket, an ampersand, or a quote. Everything else -
// including punctuation like "->" and ":" that doubles as a keyword - is
// fair game inside a run.
func (l *Lexer) isCurrDelimiter() bool {
	switch l.read() {
	case ' ', '\t', '\r', '\n', '[', ']', '&', '"':
		return true
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isTagStart reports whether the lexer sits on a single letter immediately
// followed by a quote, e.g. the "c" in c"hello". That letter becomes the
// String token's Extra tag rather than an Identifier of its own.
func (l *Lexer) isTagStart() bool {
	if !isLetter(l.read()) {
		return false
	}
	next, ok := l.peek(1)
	return ok && next == '"'
}

func (l *Lexer) here(length int) span.Span {
	return span.New(l.file, l.line, l.col, length)
}

func (l *Lexer) processSingle(kind TokenKind) Token {
	sp := l.here(1)
	contents := string(l.read())
	l.advance()
	return Token{Kind: kind, Contents: contents, Span: sp}
}

func (l *Lexer) processTaggedString() Token {
	tag := string(l.read())
	l.advance()
	return l.processString(tag)
}

func (l *Lexer) processString(tag string) Token {
	startLine, startCol := l.line, l.col
	l.advance() // consume opening quote

	buf := make([]byte, 0)
	closed := false
	for l.hasChars() {
		if l.read() == '"' {
			closed = true
			l.advance()
			break
		}

		if l.read() == '\n' {
			break
		}

		if l.read() == '\\' {
			l.advance()
			if !l.hasChars() {
				break
			}
			buf = append(buf, unescape(l.read()))
			l.advance()
			continue
		}

		buf = append(buf, l.read())
		l.advance()
	}

	if !closed {
		l.eh.Abort(compiler_errors.New(l.here(0), "unterminated string literal"))
	}

	length := l.col - startCol
	if length < 1 {
		length = 1
	}

	return Token{
		Kind:     String,
		Contents: string(buf),
		Extra:    tag,
		Span:     span.New(l.file, startLine, startCol, length),
	}
}

func unescape(b byte) byte {
	switch b {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return b
	}
}

// processRun consumes a maximal run of non-delimiter bytes and classifies
// it as Integer when every byte is a decimal or (with a "0x" prefix) hex
// digit, Identifier otherwise. This is also how keyword-shaped punctuation
// like "->" ends up an Identifier: it is just a run with no digits in it.
func (l *Lexer) processRun() Token {
	startLine, startCol := l.line, l.col

	buf := make([]byte, 0, 8)
	for l.hasChars() && !l.isCurrDelimiter() {
		buf = append(buf, l.read())
		l.advance()
	}

	if len(buf) == 0 {
		l.eh.Abort(compiler_errors.New(l.here(1), "unexpected character %q", l.read()))
	}

	contents := string(buf)
	length := l.col - startCol
	sp := span.New(l.file, startLine, startCol, length)

	if isNumericLiteral(buf) {
		return Token{Kind: Integer, Contents: contents, Span: sp}
	}

	if looksNumeric(buf) {
		l.eh.Abort(compiler_errors.New(sp, "invalid numeric literal %q", contents))
	}

	return Token{Kind: Identifier, Contents: contents, Span: sp}
}

func isNumericLiteral(buf []byte) bool {
	if len(buf) >= 3 && buf[0] == '0' && (buf[1] == 'x' || buf[1] == 'X') {
		for _, b := range buf[2:] {
			if !isHexDigit(b) {
				return false
			}
		}
		return true
	}

	for _, b := range buf {
		if !isDigit(b) {
			return false
		}
	}
	return len(buf) > 0
}

// looksNumeric flags runs that start like a number but contain a stray
// non-digit byte, so processRun can report "invalid numeric literal"
// instead of silently accepting it as an Identifier.
func looksNumeric(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	if isDigit(buf[0]) {
		return true
	}
	return len(buf) >= 2 && buf[0] == '0' && (buf[1] == 'x' || buf[1] == 'X')
}
