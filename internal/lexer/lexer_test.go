package lexer_test

import (
	"testing"

	"github.com/callisto-lang/callisto/internal/compiler_errors"
	"github.com/callisto-lang/callisto/internal/lexer"
)

type nopWriter struct{}

func (*nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func tokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	eh := compiler_errors.NewErrorHandler(&nopWriter{})
	tokens, err := lexer.NewLexer("t.cal", []byte(src), eh).Tokenize()
	if err != nil {
		t.Fatalf("unexpected lex error for %q: %v", src, err)
	}
	return tokens
}

func TestTokenizeBasicKinds(t *testing.T) {
	tokens := tokenize(t, `42 foo "bar" [ ] &baz`)

	want := []struct {
		kind     lexer.TokenKind
		contents string
	}{
		{lexer.Integer, "42"},
		{lexer.Identifier, "foo"},
		{lexer.String, "bar"},
		{lexer.LSquare, "["},
		{lexer.RSquare, "]"},
		{lexer.Ampersand, "&"},
		{lexer.Identifier, "baz"},
		{lexer.EOF, ""},
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i, w := range want {
		if tokens[i].Kind != w.kind || tokens[i].Contents != w.contents {
			t.Errorf("token %d = %s, want %s(%q)", i, tokens[i], w.kind, w.contents)
		}
	}
}

func TestTaggedStringCarriesExtra(t *testing.T) {
	tokens := tokenize(t, `c"hello"`)
	if tokens[0].Kind != lexer.String {
		t.Fatalf("expected a String token, got %s", tokens[0])
	}
	if tokens[0].Contents != "hello" {
		t.Errorf("Contents = %q, want %q", tokens[0].Contents, "hello")
	}
	if tokens[0].Extra != "c" {
		t.Errorf("Extra = %q, want %q", tokens[0].Extra, "c")
	}
}

func TestUntaggedStringHasEmptyExtra(t *testing.T) {
	tokens := tokenize(t, `"hello"`)
	if tokens[0].Extra != "" {
		t.Errorf("Extra = %q, want empty", tokens[0].Extra)
	}
}

func TestPunctuationIdentifiersAreIdentifierKind(t *testing.T) {
	tokens := tokenize(t, `-> : =`)
	for i, want := range []string{"->", ":", "="} {
		if tokens[i].Kind != lexer.Identifier {
			t.Errorf("token %d kind = %s, want Identifier", i, tokens[i].Kind)
		}
		if tokens[i].Contents != want {
			t.Errorf("token %d contents = %q, want %q", i, tokens[i].Contents, want)
		}
	}
}

func TestCommentsAndWhitespaceAreSkipped(t *testing.T) {
	tokens := tokenize(t, "  // a comment\n\t 1  // trailing\n2")
	if len(tokens) != 3 { // "1", "2", EOF
		t.Fatalf("got %d tokens, want 3: %v", len(tokens), tokens)
	}
	if tokens[0].Contents != "1" || tokens[1].Contents != "2" {
		t.Errorf("got %v, want [1 2 EOF]", tokens)
	}
}

func TestUnterminatedStringIsAnError(t *testing.T) {
	eh := compiler_errors.NewErrorHandler(&nopWriter{})
	_, err := lexer.NewLexer("t.cal", []byte(`"never closed`), eh).Tokenize()
	if err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
}

func TestHexIntegerLiteralTokenizes(t *testing.T) {
	tokens := tokenize(t, `0xff`)
	if tokens[0].Kind != lexer.Integer || tokens[0].Contents != "0xff" {
		t.Fatalf("got %s, want Integer(\"0xff\")", tokens[0])
	}
}

func TestArrayBracketsDoNotSwallowAdjacentRun(t *testing.T) {
	tokens := tokenize(t, `[u8 1 2]`)
	want := []string{"[", "u8", "1", "2", "]"}
	if len(tokens) != len(want)+1 {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want)+1, tokens)
	}
	for i, w := range want {
		if tokens[i].Contents != w {
			t.Errorf("token %d = %q, want %q", i, tokens[i].Contents, w)
		}
	}
}
