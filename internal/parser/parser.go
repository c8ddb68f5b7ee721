// Package parser builds the AST from a token stream.
//
// The grammar is LL(1) except for struct literals, which need a two-token
// lookahead to separate `Pair { x: 1 }` from a block statement following an
// identifier. Errors inside a declaration abandon that declaration; the
// top-level loop resynchronizes at the next `fn`, `struct` or `extern`.
package parser

import (
	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/source"
	"toyc/internal/token"
)

// Parser holds the state for parsing one file.
type Parser struct {
	file     source.FileID
	toks     []token.Token
	pos      int
	reporter diag.Reporter
	errs     int
}

// New creates a parser over a token stream. The stream must be EOF-terminated,
// which Tokenize guarantees.
func New(file source.FileID, toks []token.Token, reporter diag.Reporter) *Parser {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Parser{file: file, toks: toks, reporter: reporter}
}

// ParseProgram parses the whole token stream into a Program. The returned
// program holds every declaration that parsed cleanly; ok is false if any
// diagnostic was emitted.
func (p *Parser) ParseProgram() (*ast.Program, bool) {
	prog := &ast.Program{File: p.file}
	for !p.at(token.EOF) {
		decl, ok := p.parseDecl()
		if !ok {
			p.resyncTop()
			continue
		}
		prog.Decls = append(prog.Decls, decl)
	}
	return prog, p.errs == 0
}

func (p *Parser) parseDecl() (ast.Decl, bool) {
	switch p.peek().Kind {
	case token.KwStruct:
		return p.parseStructDecl()
	case token.KwExtern:
		return p.parseExternFnDecl()
	case token.KwFn:
		return p.parseFnDecl()
	default:
		p.errorAt(p.peek().Span, diag.SynExpectDeclaration,
			"expected 'fn', 'struct' or 'extern', found %s", p.describe(p.peek()))
		return nil, false
	}
}

// parseStructDecl parses `struct Name { field: Type; ... }`.
func (p *Parser) parseStructDecl() (ast.Decl, bool) {
	start := p.advance().Span // struct
	name, ok := p.expectIdent("struct name")
	if !ok {
		return nil, false
	}
	if !p.expect(token.LBrace, diag.SynExpectDelimiter, "expected '{' after struct name") {
		return nil, false
	}

	var fields []ast.StructField
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fieldName, ok := p.expectIdent("field name")
		if !ok {
			return nil, false
		}
		fieldStart := p.prev().Span
		if !p.expect(token.Colon, diag.SynExpectDelimiter, "expected ':' after field name") {
			return nil, false
		}
		fieldType, ok := p.parseType()
		if !ok {
			return nil, false
		}
		if !p.expect(token.Semi, diag.SynExpectSemicolon, "expected ';' after struct field") {
			return nil, false
		}
		fields = append(fields, ast.StructField{
			Name: fieldName.Text,
			Type: fieldType,
			Sp:   fieldStart.Cover(p.prev().Span),
		})
	}
	if !p.expect(token.RBrace, diag.SynExpectDelimiter, "expected '}' to close struct body") {
		return nil, false
	}

	return &ast.StructDecl{
		Name:   name.Text,
		Fields: fields,
		Sp:     start.Cover(p.prev().Span),
	}, true
}

// parseExternFnDecl parses `extern fn name(params) -> Type;`.
func (p *Parser) parseExternFnDecl() (ast.Decl, bool) {
	start := p.advance().Span // extern
	if !p.expect(token.KwFn, diag.SynUnexpectedToken, "expected 'fn' after 'extern'") {
		return nil, false
	}
	name, params, ret, ok := p.parseFnHeader()
	if !ok {
		return nil, false
	}
	if !p.expect(token.Semi, diag.SynExpectSemicolon, "expected ';' after extern declaration") {
		return nil, false
	}
	return &ast.ExternFnDecl{
		Name:   name,
		Params: params,
		Ret:    ret,
		Sp:     start.Cover(p.prev().Span),
	}, true
}

// parseFnDecl parses `fn name(params) -> Type { ... }`.
func (p *Parser) parseFnDecl() (ast.Decl, bool) {
	start := p.advance().Span // fn
	name, params, ret, ok := p.parseFnHeader()
	if !ok {
		return nil, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	return &ast.FnDecl{
		Name:   name,
		Params: params,
		Ret:    ret,
		Body:   body,
		Sp:     start.Cover(p.prev().Span),
	}, true
}

// parseFnHeader parses `name(params) [-> Type]` shared by fn and extern fn.
// A missing arrow clause means the unit return type; Ret stays nil and sema
// treats nil as unit.
func (p *Parser) parseFnHeader() (string, []ast.Param, ast.TypeExpr, bool) {
	name, ok := p.expectIdent("function name")
	if !ok {
		return "", nil, nil, false
	}
	if !p.expect(token.LParen, diag.SynExpectDelimiter, "expected '(' after function name") {
		return "", nil, nil, false
	}

	var params []ast.Param
	for !p.at(token.RParen) {
		if len(params) > 0 {
			if !p.expect(token.Comma, diag.SynExpectDelimiter, "expected ',' between parameters") {
				return "", nil, nil, false
			}
		}
		paramName, ok := p.expectIdent("parameter name")
		if !ok {
			return "", nil, nil, false
		}
		paramStart := p.prev().Span
		if !p.expect(token.Colon, diag.SynExpectDelimiter, "expected ':' after parameter name") {
			return "", nil, nil, false
		}
		paramType, ok := p.parseType()
		if !ok {
			return "", nil, nil, false
		}
		params = append(params, ast.Param{
			Name: paramName.Text,
			Type: paramType,
			Sp:   paramStart.Cover(p.prev().Span),
		})
	}
	if !p.expect(token.RParen, diag.SynExpectDelimiter, "expected ')' to close parameter list") {
		return "", nil, nil, false
	}

	var ret ast.TypeExpr
	if p.at(token.Arrow) {
		p.advance()
		ret, ok = p.parseType()
		if !ok {
			return "", nil, nil, false
		}
	}
	return name.Text, params, ret, true
}

// parseType parses `*...*Name`. Pointer stars bind right to left.
func (p *Parser) parseType() (ast.TypeExpr, bool) {
	if p.at(token.Star) {
		star := p.advance().Span
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return &ast.PtrType{Elem: elem, Sp: star.Cover(elem.Span())}, true
	}
	if p.at(token.Ident) {
		tok := p.advance()
		return &ast.NamedType{Name: tok.Text, Sp: tok.Span}, true
	}
	p.errorAt(p.peek().Span, diag.SynExpectType,
		"expected type, found %s", p.describe(p.peek()))
	return nil, false
}

// resyncTop skips tokens until the next plausible top-level declaration.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.KwFn, token.KwStruct, token.KwExtern:
			return
		}
		p.advance()
	}
}
