package parser

import (
	"strconv"

	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/token"
)

// parseExpr parses a full expression. Assignment is the lowest precedence
// tier and associates to the right; whether the target is assignable is a
// semantic question, not a syntactic one.
func (p *Parser) parseExpr() (ast.Expr, bool) {
	target, ok := p.parseOr()
	if !ok {
		return nil, false
	}
	if p.at(token.Eq) {
		p.advance()
		value, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		return &ast.AssignExpr{
			Target: target,
			Value:  value,
			Sp:     target.Span().Cover(value.Span()),
		}, true
	}
	return target, true
}

func (p *Parser) parseOr() (ast.Expr, bool) {
	left, ok := p.parseAnd()
	if !ok {
		return nil, false
	}
	for p.at(token.PipePipe) {
		p.advance()
		right, ok := p.parseAnd()
		if !ok {
			return nil, false
		}
		left = &ast.BinaryExpr{Op: ast.BinOr, Left: left, Right: right,
			Sp: left.Span().Cover(right.Span())}
	}
	return left, true
}

func (p *Parser) parseAnd() (ast.Expr, bool) {
	left, ok := p.parseEquality()
	if !ok {
		return nil, false
	}
	for p.at(token.AmpAmp) {
		p.advance()
		right, ok := p.parseEquality()
		if !ok {
			return nil, false
		}
		left = &ast.BinaryExpr{Op: ast.BinAnd, Left: left, Right: right,
			Sp: left.Span().Cover(right.Span())}
	}
	return left, true
}

func (p *Parser) parseEquality() (ast.Expr, bool) {
	left, ok := p.parseRelational()
	if !ok {
		return nil, false
	}
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.EqEq:
			op = ast.BinEq
		case token.BangEq:
			op = ast.BinNe
		default:
			return left, true
		}
		p.advance()
		right, ok := p.parseRelational()
		if !ok {
			return nil, false
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right,
			Sp: left.Span().Cover(right.Span())}
	}
}

func (p *Parser) parseRelational() (ast.Expr, bool) {
	left, ok := p.parseAdditive()
	if !ok {
		return nil, false
	}
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.Lt:
			op = ast.BinLt
		case token.LtEq:
			op = ast.BinLe
		case token.Gt:
			op = ast.BinGt
		case token.GtEq:
			op = ast.BinGe
		default:
			return left, true
		}
		p.advance()
		right, ok := p.parseAdditive()
		if !ok {
			return nil, false
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right,
			Sp: left.Span().Cover(right.Span())}
	}
}

func (p *Parser) parseAdditive() (ast.Expr, bool) {
	left, ok := p.parseMultiplicative()
	if !ok {
		return nil, false
	}
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.Plus:
			op = ast.BinAdd
		case token.Minus:
			op = ast.BinSub
		default:
			return left, true
		}
		p.advance()
		right, ok := p.parseMultiplicative()
		if !ok {
			return nil, false
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right,
			Sp: left.Span().Cover(right.Span())}
	}
}

func (p *Parser) parseMultiplicative() (ast.Expr, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.Star:
			op = ast.BinMul
		case token.Slash:
			op = ast.BinDiv
		case token.Percent:
			op = ast.BinRem
		default:
			return left, true
		}
		p.advance()
		right, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right,
			Sp: left.Span().Cover(right.Span())}
	}
}

func (p *Parser) parseUnary() (ast.Expr, bool) {
	var op ast.UnaryOp
	switch p.peek().Kind {
	case token.Minus:
		op = ast.UnaryNeg
	case token.Bang:
		op = ast.UnaryNot
	case token.Star:
		op = ast.UnaryDeref
	case token.Amp:
		op = ast.UnaryAddr
	default:
		return p.parsePostfix()
	}
	start := p.advance().Span
	operand, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	return &ast.UnaryExpr{Op: op, X: operand, Sp: start.Cover(operand.Span())}, true
}

// parsePostfix parses call and field suffixes: `f(a, b)`, `p.x.y`.
func (p *Parser) parsePostfix() (ast.Expr, bool) {
	base, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	for {
		switch p.peek().Kind {
		case token.LParen:
			p.advance()
			var args []ast.Expr
			for !p.at(token.RParen) {
				if len(args) > 0 {
					if !p.expect(token.Comma, diag.SynExpectDelimiter, "expected ',' between arguments") {
						return nil, false
					}
				}
				arg, ok := p.parseExpr()
				if !ok {
					return nil, false
				}
				args = append(args, arg)
			}
			if !p.expect(token.RParen, diag.SynExpectDelimiter, "expected ')' to close argument list") {
				return nil, false
			}
			base = &ast.CallExpr{Callee: base, Args: args,
				Sp: base.Span().Cover(p.prev().Span)}
		case token.Dot:
			p.advance()
			field, ok := p.expectIdent("field name")
			if !ok {
				return nil, false
			}
			base = &ast.FieldExpr{Base: base, Name: field.Text,
				Sp: base.Span().Cover(field.Span)}
		default:
			return base, true
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, bool) {
	switch p.peek().Kind {
	case token.Int:
		tok := p.advance()
		value, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			p.errorAt(tok.Span, diag.SynUnexpectedToken,
				"integer literal %q out of range", tok.Text)
			return nil, false
		}
		return &ast.IntLit{Value: value, Sp: tok.Span}, true

	case token.KwTrue:
		tok := p.advance()
		return &ast.BoolLit{Value: true, Sp: tok.Span}, true

	case token.KwFalse:
		tok := p.advance()
		return &ast.BoolLit{Value: false, Sp: tok.Span}, true

	case token.KwNull:
		tok := p.advance()
		return &ast.NullLit{Sp: tok.Span}, true

	case token.KwSizeof:
		return p.parseSizeof()

	case token.Ident:
		if p.startsStructLit() {
			return p.parseStructLit()
		}
		tok := p.advance()
		return &ast.VarExpr{Name: tok.Text, Sp: tok.Span}, true

	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if !p.expect(token.RParen, diag.SynExpectDelimiter, "expected ')'") {
			return nil, false
		}
		return inner, true

	default:
		p.errorAt(p.peek().Span, diag.SynExpectExpression,
			"expected expression, found %s", p.describe(p.peek()))
		return nil, false
	}
}

func (p *Parser) parseSizeof() (ast.Expr, bool) {
	start := p.advance().Span // sizeof
	if !p.expect(token.LParen, diag.SynExpectDelimiter, "expected '(' after 'sizeof'") {
		return nil, false
	}
	typ, ok := p.parseType()
	if !ok {
		return nil, false
	}
	if !p.expect(token.RParen, diag.SynExpectDelimiter, "expected ')' after sizeof type") {
		return nil, false
	}
	return &ast.SizeofExpr{Type: typ, Sp: start.Cover(p.prev().Span)}, true
}

// startsStructLit decides whether the identifier at the cursor begins a
// struct literal. A bare `{` would be ambiguous with a block statement that
// follows a condition expression, so the literal is recognized only when the
// brace is followed by `field :`.
func (p *Parser) startsStructLit() bool {
	return p.peekNext().Kind == token.LBrace &&
		p.peekAt(2).Kind == token.Ident &&
		p.peekAt(3).Kind == token.Colon
}

func (p *Parser) parseStructLit() (ast.Expr, bool) {
	name := p.advance() // struct name
	p.advance()         // {

	var fields []ast.FieldInit
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if len(fields) > 0 {
			if !p.expect(token.Comma, diag.SynExpectDelimiter, "expected ',' between field initializers") {
				return nil, false
			}
			// Trailing comma before the closing brace.
			if p.at(token.RBrace) {
				break
			}
		}
		fieldName, ok := p.expectIdent("field name")
		if !ok {
			return nil, false
		}
		fieldStart := p.prev().Span
		if !p.expect(token.Colon, diag.SynExpectDelimiter, "expected ':' after field name") {
			return nil, false
		}
		value, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		fields = append(fields, ast.FieldInit{
			Name:  fieldName.Text,
			Value: value,
			Sp:    fieldStart.Cover(value.Span()),
		})
	}
	if !p.expect(token.RBrace, diag.SynExpectDelimiter, "expected '}' to close struct literal") {
		return nil, false
	}
	return &ast.StructLit{
		TypeName: name.Text,
		Fields:   fields,
		Sp:       name.Span.Cover(p.prev().Span),
	}, true
}
