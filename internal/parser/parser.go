// Package parser implements Callisto's recursive-descent parser: a single
// cursor over the lexer's token stream, one method per grammar production,
// each advancing the cursor to its own last-consumed token before
// returning, matching the convention spec.md §4.2 fixes for the whole
// grammar.
package parser

import (
	"strconv"
	"strings"

	"github.com/callisto-lang/callisto/internal/ast"
	"github.com/callisto-lang/callisto/internal/compiler_errors"
	"github.com/callisto-lang/callisto/internal/lexer"
)

// Parser owns a forward-only cursor into a finished token stream. It never
// looks more than one token ahead: every production is chosen by the token
// currently under the cursor.
type Parser struct {
	fileName string
	scanner  lexer.TokenScanner
	eh       compiler_errors.ErrorHandler

	curr lexer.Token

	// parsing names the production currently being parsed, so an
	// unexpected-EOF diagnostic can say what it was looking for instead
	// of just "unexpected EOF".
	parsing string
}

func NewParser(fileName string, scanner lexer.TokenScanner, eh compiler_errors.ErrorHandler) *Parser {
	p := &Parser{
		fileName: fileName,
		scanner:  scanner,
		eh:       eh,
		parsing:  "translation unit",
	}
	p.curr = p.scanner.Read()
	return p
}

// Parse consumes the whole token stream and returns the translation unit,
// or the first parse error.
func (p *Parser) Parse() (unit *ast.TranslationUnit, err error) {
	defer func() {
		if e := p.eh.FailNow(); e != nil {
			err = e
			unit = nil
		}
	}()
	defer compiler_errors.Recover()

	nodes := p.parseSequence(func() bool { return p.curr.Kind == lexer.EOF })
	return &ast.TranslationUnit{Nodes: nodes}, nil
}

// withProduction runs fn with parsing set to name for its duration,
// restoring the previous value afterward. Every nested statement sequence
// (an If clause body, a While body, a Version body, ...) calls this so an
// "unexpected EOF" diagnostic names the innermost unfinished construct
// rather than the outermost production that was entered first (see
// DESIGN.md's Open Question decision on the parsing breadcrumb).
func (p *Parser) withProduction(name string, fn func()) {
	prev := p.parsing
	p.parsing = name
	fn()
	p.parsing = prev
}

func (p *Parser) advance() lexer.Token {
	p.curr = p.scanner.Read()
	return p.curr
}

func (p *Parser) fail(format string, args ...any) {
	p.eh.Abort(compiler_errors.New(p.curr.Span, format, args...))
}

func (p *Parser) checkEOF() {
	if p.curr.Kind == lexer.EOF {
		p.fail("unexpected EOF while parsing %s", p.parsing)
	}
}

// expectKeyword requires the current token to be the Identifier keyword and
// advances past it.
func (p *Parser) expectKeyword(word string) {
	p.checkEOF()
	if !p.curr.Is(word) {
		p.fail("unexpected %s, expected %q", describe(p.curr), word)
	}
	p.advance()
}

// atKeyword reports whether the current token is exactly the Identifier
// keyword given, without consuming it.
func (p *Parser) atKeyword(word string) bool {
	return p.curr.Is(word)
}

func (p *Parser) atAnyKeyword(words ...string) bool {
	for _, w := range words {
		if p.curr.Is(w) {
			return true
		}
	}
	return false
}

func (p *Parser) expectIdentifier(what string) lexer.Token {
	p.checkEOF()
	if p.curr.Kind != lexer.Identifier {
		p.fail("unexpected %s, expected %s", describe(p.curr), what)
	}
	tok := p.curr
	p.advance()
	return tok
}

func describe(t lexer.Token) string {
	if t.Kind == lexer.EOF {
		return "EOF"
	}
	return t.Kind.String()
}

// parseSequence collects statements until stop reports true, without
// consuming the stopping token - callers that need it (a terminator
// keyword) consume it themselves so the calling production's span can
// include it.
func (p *Parser) parseSequence(stop func() bool) []ast.Node {
	nodes := make([]ast.Node, 0)
	for !stop() {
		p.checkEOF()
		nodes = append(nodes, p.parseStatement())
	}
	return nodes
}

var keywordDispatch map[string]func(*Parser) ast.Node

func init() {
	keywordDispatch = map[string]func(*Parser) ast.Node{
		"func":      (*Parser).parseFuncDef,
		"inline":    (*Parser).parseFuncDef,
		"include":   (*Parser).parseInclude,
		"asm":       (*Parser).parseAsm,
		"if":        (*Parser).parseIf,
		"while":     (*Parser).parseWhile,
		"let":       (*Parser).parseLet,
		"enable":    (*Parser).parseEnable,
		"requires":  (*Parser).parseRequires,
		"struct":    (*Parser).parseStruct,
		"version":   (*Parser).parseVersion,
		"const":     (*Parser).parseConst,
		"enum":      (*Parser).parseEnum,
		"restrict":  (*Parser).parseRestrict,
		"union":     (*Parser).parseUnion,
		"alias":     (*Parser).parseAlias,
		"extern":    (*Parser).parseExtern,
		"implement": (*Parser).parseImplement,
		"->":        (*Parser).parseSet,
	}
}

// parseStatement dispatches on the current token per spec.md §4.2's
// parseStatement table.
func (p *Parser) parseStatement() ast.Node {
	switch p.curr.Kind {
	case lexer.Integer:
		return p.parseInteger()
	case lexer.String:
		return p.parseString()
	case lexer.LSquare:
		return p.parseArray()
	case lexer.Ampersand:
		return p.parseAddr()
	case lexer.Identifier:
		if production, ok := keywordDispatch[p.curr.Contents]; ok {
			return production(p)
		}
		return p.parseWord()
	default:
		p.fail("unexpected %s", describe(p.curr))
		panic("unreachable")
	}
}

func (p *Parser) parseWord() ast.Node {
	tok := p.curr
	p.advance()
	return &ast.Word{Sp: tok.Span, Name: tok.Contents}
}

func (p *Parser) parseInteger() ast.Node {
	tok := p.curr
	p.advance()

	value, err := parseIntegerLiteral(tok.Contents)
	if err != nil {
		p.eh.Abort(compiler_errors.New(tok.Span, "invalid numeric literal %q", tok.Contents))
	}

	return &ast.Integer{Sp: tok.Span, Value: value}
}

func parseIntegerLiteral(s string) (int64, error) {
	if len(s) > 2 && (s[1] == 'x' || s[1] == 'X') && s[0] == '0' {
		return strconv.ParseInt(s[2:], 16, 64)
	}
	return strconv.ParseInt(s, 10, 64)
}

func (p *Parser) parseString() ast.Node {
	tok := p.curr
	p.advance()
	return &ast.String{Sp: tok.Span, Body: tok.Contents, Constant: tok.Extra != ""}
}

func (p *Parser) parseAddr() ast.Node {
	start := p.curr
	p.advance()
	name := p.expectIdentifier("an identifier after '&'")
	return &ast.Addr{Sp: start.Span, Target: name.Contents}
}

// parseArray parses "[ [c] <elementType> <elements...> ]". The optional "c"
// attribute is the same tag byte the lexer records on String tokens, but
// spelled out as its own identifier here since "[" is not a quote.
func (p *Parser) parseArray() ast.Node {
	start := p.curr
	p.advance() // consume '['

	constant := false
	if p.curr.Is("c") {
		constant = true
		p.advance()
	}

	elementType := p.expectIdentifier("an array element type")

	var elements []ast.Node
	p.withProduction("array literal", func() {
		elements = p.parseSequence(func() bool { return p.curr.Kind == lexer.RSquare })
	})
	p.checkEOF()
	p.advance() // consume ']'

	return &ast.Array{
		Sp:          start.Span,
		ElementType: elementType.Contents,
		Elements:    elements,
		Constant:    constant,
	}
}

func (p *Parser) parseInclude() ast.Node {
	start := p.curr
	p.advance() // consume 'include'
	path := p.expectIdentifier("an include path")
	return &ast.Include{Sp: start.Span, Path: path.Contents}
}

// parseAsm accumulates one or more consecutive string tokens into a single
// Asm node's raw text, per spec.md §3's "raw assembly text accumulated from
// one or more string tokens".
func (p *Parser) parseAsm() ast.Node {
	start := p.curr
	p.advance() // consume 'asm'

	var parts []string
	p.withProduction("asm block", func() {
		for p.curr.Kind == lexer.String {
			parts = append(parts, p.curr.Contents)
			p.advance()
		}
	})

	if len(parts) == 0 {
		p.fail("expected at least one string literal after 'asm'")
	}

	return &ast.Asm{Sp: start.Span, Text: strings.Join(parts, "\n")}
}

func (p *Parser) parseEnable() ast.Node {
	start := p.curr
	p.advance()
	name := p.expectIdentifier("a feature or version identifier")
	return &ast.Enable{Sp: start.Span, Name: name.Contents}
}

func (p *Parser) parseRequires() ast.Node {
	start := p.curr
	p.advance()
	name := p.expectIdentifier("a feature or version identifier")
	return &ast.Requires{Sp: start.Span, Name: name.Contents}
}

func (p *Parser) parseRestrict() ast.Node {
	start := p.curr
	p.advance()
	name := p.expectIdentifier("an identifier")
	return &ast.Restrict{Sp: start.Span, Name: name.Contents}
}

func (p *Parser) parseConst() ast.Node {
	start := p.curr
	p.advance()
	name := p.expectIdentifier("a constant name")
	valueTok := p.curr
	if valueTok.Kind != lexer.Integer {
		p.fail("expected an integer value for const %q", name.Contents)
	}
	value, err := parseIntegerLiteral(valueTok.Contents)
	if err != nil {
		p.eh.Abort(compiler_errors.New(valueTok.Span, "invalid numeric literal %q", valueTok.Contents))
	}
	p.advance()
	return &ast.Const{Sp: start.Span, Name: name.Contents, Value: value}
}

// parseVersion parses "version [not] <name> ... end".
func (p *Parser) parseVersion() ast.Node {
	start := p.curr
	p.advance()

	not := false
	if p.curr.Is("not") {
		not = true
		p.advance()
	}

	name := p.expectIdentifier("a version identifier")

	var body []ast.Node
	p.withProduction("version block", func() {
		body = p.parseSequence(func() bool { return p.atKeyword("end") })
	})
	p.expectKeyword("end")

	return &ast.Version{Sp: start.Span, Name: name.Contents, Not: not, Body: body}
}

// parseOptionalArraySize parses an optional leading "array <int>" prefix,
// shared by Let and Struct member parsing.
func (p *Parser) parseOptionalArraySize() (isArray bool, size int64) {
	if !p.curr.Is("array") {
		return false, 0
	}
	p.advance()

	sizeTok := p.curr
	if sizeTok.Kind != lexer.Integer {
		p.fail("expected an array size after 'array'")
	}
	value, err := parseIntegerLiteral(sizeTok.Contents)
	if err != nil {
		p.eh.Abort(compiler_errors.New(sizeTok.Span, "invalid numeric literal %q", sizeTok.Contents))
	}
	p.advance()

	return true, value
}

// parseLet parses "let [array <int>] <type> <name>".
func (p *Parser) parseLet() ast.Node {
	start := p.curr
	p.advance()

	isArray, size := p.parseOptionalArraySize()

	typeName := p.expectIdentifier("a type name")
	varName := p.expectIdentifier("a variable name")

	return &ast.Let{
		Sp:    start.Span,
		Type:  typeName.Contents,
		Name:  varName.Contents,
		Array: isArray,
		Size:  size,
	}
}

func (p *Parser) parseSet() ast.Node {
	start := p.curr
	p.advance() // consume '->'
	name := p.expectIdentifier("a variable name")
	return &ast.Set{Sp: start.Span, Name: name.Contents}
}

// parseFuncDef parses "[inline] func [raw] <name> (<type> <name>)* begin
// <body> end". The body is parsed with parseStatement, which routes
// "func"/"inline" straight back here, so a nested FuncDef is parsed like any
// other statement; once the body is complete, a FuncDef among the body's own
// top-level statements is rejected. A FuncDef nested deeper (inside an If or
// While in the body) is not rejected here; lowering rejects it instead.
func (p *Parser) parseFuncDef() ast.Node {
	start := p.curr
	inline := p.curr.Is("inline")
	p.advance() // consume 'func' or 'inline'

	if inline {
		p.expectKeyword("func")
	}

	raw := false
	if p.curr.Is("raw") {
		raw = true
		p.advance()
	}

	name := p.expectIdentifier("a function name")

	var params []ast.Param
	for p.curr.Kind == lexer.Identifier && !p.curr.Is("begin") {
		paramType := p.expectIdentifier("a parameter type")
		paramName := p.expectIdentifier("a parameter name")
		params = append(params, ast.Param{Type: paramType.Contents, Name: paramName.Contents})
	}

	p.expectKeyword("begin")

	var body []ast.Node
	p.withProduction("function "+name.Contents, func() {
		body = p.parseSequence(func() bool { return p.atKeyword("end") })
	})

	for _, n := range body {
		if fd, ok := n.(*ast.FuncDef); ok {
			p.eh.Abort(compiler_errors.New(fd.Sp, "nested function definitions are not allowed"))
		}
	}

	p.expectKeyword("end")

	return &ast.FuncDef{
		Sp:     start.Span,
		Name:   name.Contents,
		Inline: inline,
		Raw:    raw,
		Params: params,
		Body:   body,
	}
}

// parseIf parses the if/elseif*/else?/end chain.
func (p *Parser) parseIf() ast.Node {
	start := p.curr
	p.advance() // consume 'if'

	clauses := []ast.IfClause{p.parseIfClause()}

	for p.curr.Is("elseif") {
		p.advance()
		clauses = append(clauses, p.parseIfClause())
	}

	var elseBody []ast.Node
	if p.curr.Is("else") {
		p.advance()
		p.withProduction("if/else block", func() {
			elseBody = p.parseSequence(func() bool { return p.atKeyword("end") })
		})
	}

	p.expectKeyword("end")

	return &ast.If{Sp: start.Span, Clauses: clauses, Else: elseBody}
}

// parseIfClause parses "<condition> then <body>" up to (but not consuming)
// the next elseif/else/end.
func (p *Parser) parseIfClause() ast.IfClause {
	var condition []ast.Node
	p.withProduction("if condition", func() {
		condition = p.parseSequence(func() bool { return p.atKeyword("then") })
	})
	p.expectKeyword("then")

	var body []ast.Node
	p.withProduction("if body", func() {
		body = p.parseSequence(func() bool {
			return p.atAnyKeyword("elseif", "else", "end")
		})
	})

	return ast.IfClause{Condition: condition, Body: body}
}

// parseWhile parses "while <condition> do <body> end".
func (p *Parser) parseWhile() ast.Node {
	start := p.curr
	p.advance() // consume 'while'

	var condition []ast.Node
	p.withProduction("while condition", func() {
		condition = p.parseSequence(func() bool { return p.atKeyword("do") })
	})
	p.expectKeyword("do")

	var body []ast.Node
	p.withProduction("while body", func() {
		body = p.parseSequence(func() bool { return p.atKeyword("end") })
	})
	p.expectKeyword("end")

	return &ast.While{Sp: start.Span, Condition: condition, Body: body}
}

// parseStruct parses "struct <name> [: <parent>] (<[array <int>] type name>)* end".
func (p *Parser) parseStruct() ast.Node {
	start := p.curr
	p.advance() // consume 'struct'

	name := p.expectIdentifier("a struct name")

	parent := ""
	if p.curr.Is(":") {
		p.advance()
		parentTok := p.expectIdentifier("a parent struct name")
		parent = parentTok.Contents
	}

	var members []ast.StructMember
	p.withProduction("struct "+name.Contents, func() {
		for !p.atKeyword("end") {
			p.checkEOF()

			isArray, size := p.parseOptionalArraySize()

			memberType := p.expectIdentifier("a member type")
			memberName := p.expectIdentifier("a member name")

			members = append(members, ast.StructMember{
				Type:  memberType.Contents,
				Name:  memberName.Contents,
				Array: isArray,
				Size:  size,
			})
		}
	})
	p.expectKeyword("end")

	return &ast.Struct{Sp: start.Span, Name: name.Contents, Parent: parent, Members: members}
}

// parseEnum parses "enum <name> [: <baseType>] (<name> [= <int>])* end".
func (p *Parser) parseEnum() ast.Node {
	start := p.curr
	p.advance() // consume 'enum'

	name := p.expectIdentifier("an enum name")

	baseType := "cell"
	if p.curr.Is(":") {
		p.advance()
		baseTok := p.expectIdentifier("a base type")
		baseType = baseTok.Contents
	}

	var members []ast.EnumMember
	p.withProduction("enum "+name.Contents, func() {
		for !p.atKeyword("end") {
			p.checkEOF()
			memberName := p.expectIdentifier("an enum member name")

			member := ast.EnumMember{Name: memberName.Contents}
			if p.curr.Is("=") {
				p.advance()
				valueTok := p.curr
				if valueTok.Kind != lexer.Integer {
					p.fail("expected an integer value after '='")
				}
				value, err := parseIntegerLiteral(valueTok.Contents)
				if err != nil {
					p.eh.Abort(compiler_errors.New(valueTok.Span, "invalid numeric literal %q", valueTok.Contents))
				}
				member.Value = value
				member.Explicit = true
				p.advance()
			}
			members = append(members, member)
		}
	})
	p.expectKeyword("end")

	return &ast.Enum{Sp: start.Span, Name: name.Contents, BaseType: baseType, Members: members}
}

// parseUnion parses "union <name> <memberType>* end".
func (p *Parser) parseUnion() ast.Node {
	start := p.curr
	p.advance() // consume 'union'
	name := p.expectIdentifier("a union name")

	var members []string
	p.withProduction("union "+name.Contents, func() {
		for !p.atKeyword("end") {
			p.checkEOF()
			member := p.expectIdentifier("a union member type")
			members = append(members, member.Contents)
		}
	})
	p.expectKeyword("end")

	return &ast.Union{Sp: start.Span, Name: name.Contents, Members: members}
}

// parseAlias parses "alias [overwrite] <to> <from>".
func (p *Parser) parseAlias() ast.Node {
	start := p.curr
	p.advance() // consume 'alias'

	overwrite := false
	if p.curr.Is("overwrite") {
		overwrite = true
		p.advance()
	}

	to := p.expectIdentifier("an alias name")
	from := p.expectIdentifier("the aliased type name")

	return &ast.Alias{Sp: start.Span, To: to.Contents, From: from.Contents, Overwrite: overwrite}
}

// parseExtern parses the three extern forms: "extern <name>",
// "extern raw <name>", and "extern C <retType> <name> <paramType>* end".
func (p *Parser) parseExtern() ast.Node {
	start := p.curr
	p.advance() // consume 'extern'

	if p.curr.Is("raw") {
		p.advance()
		name := p.expectIdentifier("an extern function name")
		return &ast.Extern{Sp: start.Span, Name: name.Contents, Kind: ast.ExternRaw}
	}

	if p.curr.Is("C") {
		p.advance()
		retType := p.expectIdentifier("a C return type")
		name := p.expectIdentifier("an extern function name")

		var params []string
		p.withProduction("extern C "+name.Contents, func() {
			for !p.atKeyword("end") {
				p.checkEOF()
				paramType := p.expectIdentifier("a C parameter type")
				params = append(params, paramType.Contents)
			}
		})
		p.expectKeyword("end")

		return &ast.Extern{
			Sp:         start.Span,
			Name:       name.Contents,
			Kind:       ast.ExternC,
			ReturnType: retType.Contents,
			Params:     params,
		}
	}

	name := p.expectIdentifier("an extern function name")
	return &ast.Extern{Sp: start.Span, Name: name.Contents, Kind: ast.ExternNative}
}

// parseImplement parses "implement <struct> <init|deinit> <body> end".
func (p *Parser) parseImplement() ast.Node {
	start := p.curr
	p.advance() // consume 'implement'

	structName := p.expectIdentifier("a struct name")
	method := p.expectIdentifier("'init' or 'deinit'")
	if method.Contents != "init" && method.Contents != "deinit" {
		p.eh.Abort(compiler_errors.New(method.Span, "expected 'init' or 'deinit', got %q", method.Contents))
	}

	var body []ast.Node
	p.withProduction("implement "+structName.Contents+" "+method.Contents, func() {
		body = p.parseSequence(func() bool { return p.atKeyword("end") })
	})

	for _, n := range body {
		if fd, ok := n.(*ast.FuncDef); ok {
			p.eh.Abort(compiler_errors.New(fd.Sp, "function definitions are not allowed inside implement"))
		}
	}

	p.expectKeyword("end")

	return &ast.Implement{Sp: start.Span, Struct: structName.Contents, Method: method.Contents, Body: body}
}
