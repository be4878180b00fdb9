package lexer

import (
	"fmt"

	"github.com/callisto-lang/callisto/internal/span"
)

// TokenKind enumerates the closed set of lexical categories the lexer
// produces. Keyword recognition ("func", "if", "->", ...) is not a distinct
// kind: keywords surface as Identifier tokens and the parser tells them
// apart by comparing Contents, matching the language's own rule that
// punctuation like "->" and ":" are identifiers, not operators.
type TokenKind int

const (
	EOF TokenKind = iota

	Integer
	Identifier
	String

	LSquare // [
	RSquare // ]
	Ampersand
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Integer:
		return "Integer"
	case Identifier:
		return "Identifier"
	case String:
		return "String"
	case LSquare:
		return "LSquare"
	case RSquare:
		return "RSquare"
	case Ampersand:
		return "Ampersand"
	default:
		panic(fmt.Sprintf("lexer: unhandled TokenKind %d in String()", int(k)))
	}
}

// Token is the lexer's sole output type. Extra is only ever populated on a
// String token, carrying the single-letter tag preceding the opening quote
// (e.g. the "c" in c"hello") that marks the string as a constant/static
// placement.
type Token struct {
	Kind     TokenKind
	Contents string
	Extra    string
	Span     span.Span
}

func (t Token) String() string {
	if t.Extra != "" {
		return fmt.Sprintf("%s(%q, extra=%q)", t.Kind, t.Contents, t.Extra)
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Contents)
}

// Is reports whether the token is an Identifier whose text is exactly want.
// Every keyword and punctuation-identifier check in the parser goes through
// this instead of comparing Kind, since keywords have no dedicated kind.
func (t Token) Is(want string) bool {
	return t.Kind == Identifier && t.Contents == want
}
