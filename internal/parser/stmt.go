package parser

import (
	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/token"
)

// parseBlock parses `{ stmt* }`.
func (p *Parser) parseBlock() (*ast.Block, bool) {
	if !p.expect(token.LBrace, diag.SynExpectDelimiter, "expected '{'") {
		return nil, false
	}
	start := p.prev().Span

	var stmts []ast.Stmt
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		stmt, ok := p.parseStmt()
		if !ok {
			return nil, false
		}
		stmts = append(stmts, stmt)
	}
	if !p.expect(token.RBrace, diag.SynExpectDelimiter, "expected '}' to close block") {
		return nil, false
	}
	return &ast.Block{Stmts: stmts, Sp: start.Cover(p.prev().Span)}, true
}

func (p *Parser) parseStmt() (ast.Stmt, bool) {
	switch p.peek().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.KwVar:
		return p.parseVarDecl()
	case token.KwDefer:
		return p.parseDeferStmt()
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	default:
		return p.parseExprStmt()
	}
}

// parseVarDecl parses `var name: Type = expr;`. Both the type annotation and
// the initializer are mandatory in the surface syntax.
func (p *Parser) parseVarDecl() (ast.Stmt, bool) {
	start := p.advance().Span // var
	name, ok := p.expectIdent("variable name")
	if !ok {
		return nil, false
	}
	if !p.expect(token.Colon, diag.SynExpectDelimiter, "expected ':' after variable name") {
		return nil, false
	}
	typ, ok := p.parseType()
	if !ok {
		return nil, false
	}
	if !p.expect(token.Eq, diag.SynExpectDelimiter, "expected '=' in variable declaration") {
		return nil, false
	}
	init, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if !p.expect(token.Semi, diag.SynExpectSemicolon, "expected ';' after variable declaration") {
		return nil, false
	}
	return &ast.VarDecl{
		Name: name.Text,
		Type: typ,
		Init: init,
		Sp:   start.Cover(p.prev().Span),
	}, true
}

// parseDeferStmt parses `defer f(args);`. Only a call may be deferred.
func (p *Parser) parseDeferStmt() (ast.Stmt, bool) {
	start := p.advance().Span // defer
	expr, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	call, isCall := expr.(*ast.CallExpr)
	if !isCall {
		p.errorAt(expr.Span(), diag.SynDeferNotCall,
			"defer requires a call expression")
		return nil, false
	}
	if !p.expect(token.Semi, diag.SynExpectSemicolon, "expected ';' after defer statement") {
		return nil, false
	}
	return &ast.DeferStmt{Call: call, Sp: start.Cover(p.prev().Span)}, true
}

func (p *Parser) parseIfStmt() (ast.Stmt, bool) {
	start := p.advance().Span // if
	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	then, ok := p.parseBlock()
	if !ok {
		return nil, false
	}

	var els *ast.Block
	if p.at(token.KwElse) {
		p.advance()
		if p.at(token.KwIf) {
			// `else if` nests as a single-statement else block.
			nested, ok := p.parseIfStmt()
			if !ok {
				return nil, false
			}
			els = &ast.Block{Stmts: []ast.Stmt{nested}, Sp: nested.Span()}
		} else {
			els, ok = p.parseBlock()
			if !ok {
				return nil, false
			}
		}
	}
	return &ast.IfStmt{
		Cond: cond,
		Then: then,
		Else: els,
		Sp:   start.Cover(p.prev().Span),
	}, true
}

func (p *Parser) parseWhileStmt() (ast.Stmt, bool) {
	start := p.advance().Span // while
	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Sp: start.Cover(p.prev().Span)}, true
}

func (p *Parser) parseReturnStmt() (ast.Stmt, bool) {
	start := p.advance().Span // return
	var value ast.Expr
	if !p.at(token.Semi) {
		var ok bool
		value, ok = p.parseExpr()
		if !ok {
			return nil, false
		}
	}
	if !p.expect(token.Semi, diag.SynExpectSemicolon, "expected ';' after return statement") {
		return nil, false
	}
	return &ast.ReturnStmt{Value: value, Sp: start.Cover(p.prev().Span)}, true
}

func (p *Parser) parseExprStmt() (ast.Stmt, bool) {
	expr, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if !p.expect(token.Semi, diag.SynExpectSemicolon, "expected ';' after expression") {
		return nil, false
	}
	return &ast.ExprStmt{X: expr, Sp: expr.Span().Cover(p.prev().Span)}, true
}
