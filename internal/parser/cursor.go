package parser

import (
	"fmt"

	"toyc/internal/diag"
	"toyc/internal/source"
	"toyc/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// peekNext looks one token past the cursor. Safe because the stream is
// EOF-terminated and advance never moves past EOF.
func (p *Parser) peekNext() token.Token {
	if p.pos+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+1]
}

// peekAt looks n tokens past the cursor, clamping at EOF.
func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) prev() token.Token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

// expect consumes a token of kind k or reports the given diagnostic.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	p.errorAt(p.peek().Span, code, "%s, found %s", msg, p.describe(p.peek()))
	return false
}

// expectIdent consumes an identifier or reports what was expected instead.
func (p *Parser) expectIdent(what string) (token.Token, bool) {
	if p.at(token.Ident) {
		return p.advance(), true
	}
	p.errorAt(p.peek().Span, diag.SynExpectIdentifier,
		"expected %s, found %s", what, p.describe(p.peek()))
	return token.Token{}, false
}

func (p *Parser) errorAt(sp source.Span, code diag.Code, format string, args ...any) {
	p.errs++
	p.reporter.Report(diag.NewError(code, sp, fmt.Sprintf(format, args...)))
}

// describe renders a token for diagnostics: punctuation by its glyph,
// identifiers and literals with their text.
func (p *Parser) describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return fmt.Sprintf("identifier %q", tok.Text)
	case token.Int:
		return fmt.Sprintf("literal %q", tok.Text)
	default:
		return fmt.Sprintf("%q", tok.Kind.String())
	}
}
